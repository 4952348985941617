package storage

type Worker struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	IsActive bool   `json:"is_active"`
}

type SaveWorker struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type UpdateWorker struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
	IsActive *bool   `json:"is_active"`
}
