package profile

// Profile is the per-user display row. Read-only from the list page;
// written only once, when a verified session first lands on the app.
type Profile struct {
	UserID    string
	Username  string
	AvatarURL string
}
