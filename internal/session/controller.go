package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/apiclient"
	"tenant-exit-portal/internal/form"
	"tenant-exit-portal/internal/render"
)

const loggedOutText = "You have been logged out."

// Controller forwards logins to the upstream API and ends sessions.
type Controller struct {
	client  *apiclient.Client
	cookies Cookies
	log     *zap.Logger

	// OnLogout runs after a successful logout, before the cookies are expired.
	OnLogout func(State)
}

// NewController creates a session controller.
func NewController(client *apiclient.Client, cookies Cookies, log *zap.Logger) *Controller {
	return &Controller{client: client, cookies: cookies, log: log}
}

// Cookies returns the cookie writer the controller uses.
func (ctl *Controller) Cookies() Cookies {
	return ctl.cookies
}

// LoginPage renders the sign-in form, or forwards a signed-in user home.
func (ctl *Controller) LoginPage(c *gin.Context) {
	if st := ctl.cookies.Read(c); st.LoggedIn() {
		c.Redirect(http.StatusSeeOther, HomePath(st.Role))
		return
	}
	page := render.LoginPage{Page: render.Page{Title: "Login"}}
	if f := ctl.cookies.TakeFlash(c); f != nil {
		page.Notice = &render.Notice{Level: f.Level, Title: f.Title, Text: f.Text}
	}
	c.HTML(http.StatusOK, render.PageLogin, page)
}

// Login forwards the credentials and stores the upstream session.
func (ctl *Controller) Login(c *gin.Context) {
	page := render.LoginPage{Page: render.Page{Title: "Login"}}

	fc, err := form.FromRequest(c.Request)
	if err != nil {
		page.Notice = render.ErrorNotice(err, render.LoginFailure)
		c.HTML(http.StatusBadRequest, render.PageLogin, page)
		return
	}
	page.Username = fc.Value("username")

	creds, err := form.ParseLogin(fc)
	if err != nil {
		page.Notice = render.ErrorNotice(err, render.LoginFailure)
		c.HTML(http.StatusBadRequest, render.PageLogin, page)
		return
	}

	result, err := ctl.client.Login(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		ctl.log.Info("login rejected", zap.String("username", creds.Username), zap.Error(err))
		page.Notice = render.ErrorNotice(err, render.LoginFailure)
		c.HTML(render.StatusFor(err), render.PageLogin, page)
		return
	}
	if result.Session == "" || result.Role == "" {
		ctl.log.Warn("login response carried no session", zap.String("username", creds.Username))
		page.Notice = &render.Notice{Level: render.LevelError, Title: render.LoginFailure.Title, Text: render.LoginFailure.HTTP}
		c.HTML(http.StatusBadGateway, render.PageLogin, page)
		return
	}

	if err := ctl.cookies.Set(c, State{Token: result.Session, Role: result.Role}); err != nil {
		ctl.log.Error("failed to sign session cookie", zap.Error(err))
		page.Notice = &render.Notice{Level: render.LevelError, Title: render.LoginFailure.Title, Text: render.LoginFailure.HTTP}
		c.HTML(http.StatusInternalServerError, render.PageLogin, page)
		return
	}
	ctl.log.Info("login", zap.String("username", creds.Username), zap.String("role", result.Role))
	c.Redirect(http.StatusSeeOther, HomePath(result.Role))
}

// Logout ends the upstream session. On success the portal cookies are expired
// and a confirmation forwards to the login page. On failure the user goes back
// to the page they came from with the cookies untouched.
func (ctl *Controller) Logout(c *gin.Context) {
	st := ctl.cookies.Read(c)
	back := BackPath(c.PostForm("back"), c.Request.Referer())

	msg, err := ctl.client.Session(st.Token).Logout(c.Request.Context())
	if err != nil {
		ctl.log.Warn("logout failed", zap.String("role", st.Role), zap.Error(err))
		n := render.ErrorNotice(err, render.LogoutFailure)
		if _, ok := apiclient.AsAPIError(err); ok {
			n.Text = render.LogoutFailure.HTTP
		}
		ctl.cookies.SetFlash(c, Flash{Level: n.Level, Title: n.Title, Text: n.Text})
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if ctl.OnLogout != nil {
		ctl.OnLogout(st)
	}
	ctl.cookies.Clear(c)

	text := msg.Message
	if text == "" {
		text = loggedOutText
	}
	c.HTML(http.StatusOK, render.PageLoggedOut, render.LoggedOutPage{
		Page:     render.Page{Title: "Logged Out"},
		Message:  text,
		Redirect: "/login",
	})
}

// BackPath picks a same-site path to return to. The form value wins over the
// Referer; anything that is not a local path falls back to /login.
func BackPath(formValue, referer string) string {
	for _, candidate := range []string{formValue, refererPath(referer)} {
		if isLocalPath(candidate) {
			return candidate
		}
	}
	return "/login"
}

func refererPath(referer string) string {
	if referer == "" {
		return ""
	}
	// Drop scheme and host.
	if i := strings.Index(referer, "://"); i >= 0 {
		rest := referer[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			return rest[j:]
		}
		return ""
	}
	return referer
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
