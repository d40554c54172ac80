package dto

import (
	"route-dashboard/internal/domain"
	"route-dashboard/internal/render/mapview"
	"route-dashboard/internal/render/panel"
)

type StateResponse struct {
	Version uint64           `json:"version"`
	State   domain.ViewState `json:"state"`
}

type PanelResponse struct {
	Version uint64      `json:"version"`
	Panel   panel.Panel `json:"panel"`
}

// FrameMessage is pushed to live pages after every render pass.
// Pages ignore a message whose seq is not newer than the one they last drew.
type FrameMessage struct {
	Seq         uint64           `json:"seq"`
	Version     uint64           `json:"version"`
	State       domain.ViewState `json:"state"`
	PanelHTML   string           `json:"panel_html"`
	OverlayHTML string           `json:"overlay_html"`
	Map         mapview.Scene    `json:"map"`
}
