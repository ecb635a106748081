package render

import (
	"errors"
	"net/http"

	"tenant-exit-portal/internal/apiclient"
	"tenant-exit-portal/internal/form"
)

// Failure holds the generic texts for one action when it goes wrong.
type Failure struct {
	Title   string
	HTTP    string
	Network string
}

// Failures used by the portal actions.
var (
	SubmitExitFailure = Failure{
		Title:   "Submission Failed",
		HTTP:    "Failed to submit exit request.",
		Network: "Unable to submit exit request.",
	}
	SubmitDamageFailure = Failure{
		Title:   "Submission Failed",
		HTTP:    "Failed to submit damage report.",
		Network: "Unable to submit damage report.",
	}
	DeskStatusFailure = Failure{
		Title:   "Update Failed",
		HTTP:    "Failed to update status.",
		Network: "Could not update request status.",
	}
	AdminStatusFailure = Failure{
		Title:   "Update Failed",
		HTTP:    "Status update failed",
		Network: "Could not update request status.",
	}
	FieldsFailure = Failure{
		Title:   "Update Failed",
		HTTP:    "Failed to update the request.",
		Network: "Could not update the request.",
	}
	LoadFailure = Failure{
		Title:   "Load Failed",
		HTTP:    "Failed to load data.",
		Network: "Unable to reach the server.",
	}
	ReportFailure = Failure{
		Title:   "Download Failed",
		HTTP:    "Error downloading report.",
		Network: "Error downloading report.",
	}
	LoginFailure = Failure{
		Title:   "Login Failed",
		HTTP:    "Invalid username or password.",
		Network: "Unable to reach the server.",
	}
	LogoutFailure = Failure{
		Title:   "Logout Failed",
		HTTP:    "Logout failed. Please try again.",
		Network: "Logout failed. Please try again.",
	}
)

// ErrorNotice turns an action error into the banner shown to the user.
// Validation errors never reach the network and get the missing fields warning.
func ErrorNotice(err error, f Failure) *Notice {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		return &Notice{
			Level:   LevelWarning,
			Title:   form.MissingFieldsTitle,
			Text:    form.MissingFieldsText,
			Details: ve.Messages(),
		}
	}
	if errors.Is(err, apiclient.ErrNetwork) {
		return &Notice{Level: LevelError, Title: "Network Error", Text: f.Network}
	}
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		return &Notice{Level: LevelError, Title: f.Title, Text: apiErr.Message(f.HTTP)}
	}
	return &Notice{Level: LevelError, Title: f.Title, Text: f.HTTP}
}

// Success is a success banner.
func Success(title, text string) *Notice {
	return &Notice{Level: LevelSuccess, Title: title, Text: text}
}

// StatusFor is the HTTP status a page is rendered with after err. Upstream
// client errors keep their status, everything else from upstream is a bad gateway.
func StatusFor(err error) int {
	if form.IsValidation(err) {
		return http.StatusBadRequest
	}
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
	}
	return http.StatusBadGateway
}
