package kafka

const (
	TopicSeatAssigned    = "seating.seat.assigned"
	TopicSeatReleased    = "seating.seat.released"
	TopicWaitlistUpdated = "seating.waitlist.updated"
	TopicCommandResult   = "seating.command.result"

	TopicCommands = "seating.commands"
)
