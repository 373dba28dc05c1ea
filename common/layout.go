package common

// Chat panel geometry, in screen pixels.
const (
	SpriteSlot    = 160
	PanelPadding  = 12
	PanelSpacing  = 8
	HistoryHeight = 260
)
