package dto

import "route-dashboard/internal/domain"

type TriggerResponse struct {
	Mode   domain.Mode `json:"mode"`
	Status string      `json:"status"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Busy    bool   `json:"busy"`
}
