package event

// EventType represents the type of simulation signal
type EventType int

const (
	EventNone EventType = iota

	// EventLaunch signals a carrier leaving Idle toward a reserved slot
	// Trigger: Launcher | Payload: *LaunchPayload
	EventLaunch

	// EventRetarget signals a carrier swapping an invalid target for a new one
	// Trigger: MotionSystem validation | Payload: *RetargetPayload
	EventRetarget

	// EventAbort signals a carrier parked in Idle because no target exists
	// Trigger: MotionSystem validation | Payload: *AbortPayload
	EventAbort

	// EventArrive signals a carrier reaching its slot and committing damage
	// Trigger: ImpactResolver | Payload: *ArrivePayload
	EventArrive

	// EventSlotConfirmed asks the scene graph to re-parent the carrier under its slot
	// Trigger: ImpactResolver | Payload: *SlotConfirmedPayload
	EventSlotConfirmed

	// EventCellScale signals a new shrink target after an exact threshold hit
	// Trigger: ImpactResolver | Payload: *CellScalePayload
	EventCellScale

	// EventCellDestroyed starts the external destruction sequence (scale/particles/audio)
	// Trigger: ImpactResolver, external kill | Payload: *CellPayload
	EventCellDestroyed

	// EventCellRemoved signals the end of the destruction sequence
	// Trigger: Session deferred timer | Payload: *CellPayload
	EventCellRemoved

	// EventAttachSettled signals the end of the attach bounce
	// Trigger: Session deferred timer | Payload: *SlotConfirmedPayload
	EventAttachSettled
)

var typeNames = map[EventType]string{
	EventNone:          "none",
	EventLaunch:        "launch",
	EventRetarget:      "retarget",
	EventAbort:         "abort",
	EventArrive:        "arrive",
	EventSlotConfirmed: "slot_confirmed",
	EventCellScale:     "cell_scale",
	EventCellDestroyed: "cell_destroyed",
	EventCellRemoved:   "cell_removed",
	EventAttachSettled: "attach_settled",
}

func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// GameEvent is one outbound signal
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    int64
}
