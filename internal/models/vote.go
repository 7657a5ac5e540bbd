package models

type Vote struct {
	UserID string `json:"user_id"`
	Value  int    `json:"value"` // 1 or -1; a zero vote is removed, not stored
}
