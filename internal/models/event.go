package models

type ContractFulfilledEvent struct {
	ContractID     string `json:"contract_id"`
	StudentID      string `json:"student_id"`
	NotificationID string `json:"notification_id"`
	Completed      int    `json:"completed"`
	Available      int    `json:"available"`
	Excluded       int    `json:"excluded"`
	Timestamp      int64  `json:"timestamp"`
}
