package model

// NotificationKind names the message template a notification renders.
type NotificationKind string

const (
	NotificationOrderConfirmed        NotificationKind = "order_confirmed"
	NotificationOrderCancelled        NotificationKind = "order_cancelled"
	NotificationMaterialReturnPending NotificationKind = "material_return_pending"
	NotificationMaterialOverdue       NotificationKind = "material_overdue"
	NotificationReviewInvitation      NotificationKind = "review_invitation"
	NotificationThankYou              NotificationKind = "thank_you"
)
