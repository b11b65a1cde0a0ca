package render

// Priority orders layers; lower values draw first
type Priority int

const (
	PriorityBackground Priority = iota
	PriorityCells
	PrioritySlots
	PriorityCarriers
	PriorityHUD
)
