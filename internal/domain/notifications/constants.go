package notifications

const (
	TypeEmployeeCreated = "employee.created"

	SecretHeader    = "X-Webhook-Secret"
	EventTypeHeader = "X-Webhook-Event"
)
