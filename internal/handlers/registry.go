package handlers

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ModerationHandler   *ModerationHandler
	NotificationHandler *NotificationHandler
	AnnouncementHandler *AnnouncementHandler
	SupportHandler      *SupportHandler
	JobHandler          *JobHandler
}
