package ports

// Resources and actions checked through the Authorizer.
const (
	ResourceLot         = "lot"
	ResourceHarvest     = "harvest"
	ResourceListing     = "listing"
	ResourceOrder       = "order"
	ResourceContract    = "contract"
	ResourceTransporter = "transporter"
	ResourceTransport   = "transport"
	ResourceFacility    = "facility"
	ResourceStorage     = "storage"
	ResourceEscrow      = "escrow"
	ResourcePayout      = "payout"

	ActionCreate   = "create"
	ActionRead     = "read"
	ActionRespond  = "respond"
	ActionCancel   = "cancel"
	ActionForm     = "form"
	ActionDispute  = "dispute"
	ActionResolve  = "resolve"
	ActionConfirm  = "confirm"
	ActionAssign   = "assign"
	ActionAccept   = "accept"
	ActionPickUp   = "pickup"
	ActionTransit  = "transit"
	ActionDeliver  = "deliver"
	ActionRelease  = "release"
	ActionReview   = "review"
	ActionSettle   = "settle"
	ActionFail     = "fail"
	ActionRetry    = "retry"
	ActionRegister = "register"
)
