package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/darsban/apps/shared"
	. "github.com/trezcool/darsban/apps/web/echo"
	logsvc "github.com/trezcool/darsban/services/logger"
	testutil "github.com/trezcool/darsban/tests"
)

const (
	sessionCookie = testutil.SessionCookie
	csrfCookie    = "_csrf"
)

func setup(t *testing.T) (Server, *shared.App) {
	conf := testutil.NewConfig()

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)

	app := testutil.NewApp(t, conf)
	srv := NewServer(Deps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    app.UserSvc,
		SchoolSvc:  app.SchoolSvc,
		Gradebook:  app.Gradebook,
		Validate:   app.Validate,
		Translator: app.Translator,
	})
	return srv, app
}

// browser replays the cookies the server sets, the way a browser would.
type browser struct {
	t       *testing.T
	srv     Server
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, srv Server) *browser {
	return &browser{t: t, srv: srv, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.srv.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// csrf returns the CSRF token, fetching the login page first if needed.
func (b *browser) csrf() string {
	if _, ok := b.cookies[csrfCookie]; !ok {
		b.get("/login")
	}
	c, ok := b.cookies[csrfCookie]
	require.True(b.t, ok, "no csrf cookie")
	return c.Value
}

func newFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", b.csrf())
	return b.do(newFormRequest(http.MethodPost, path, form))
}

func (b *browser) postFile(path, field, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(b.t, mw.WriteField("_csrf", b.csrf()))
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(b.t, err)
	_, err = io.Copy(fw, bytes.NewReader(content))
	require.NoError(b.t, err)
	require.NoError(b.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func (b *browser) login(uname, pwd string) {
	rec := b.postForm("/login", url.Values{"username": {uname}, "password": {pwd}})
	require.Equal(b.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Contains(b.t, b.cookies, sessionCookie)
}

func loggedIn(t *testing.T, srv Server, uname, pwd string) *browser {
	b := newBrowser(t, srv)
	b.login(uname, pwd)
	return b
}

// API helpers

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, srv Server, uname, pwd string) string {
	body := marshallObj(t, LoginRequest{Username: uname, Password: pwd})
	req, rec := newRequest(http.MethodPost, "/api/v1/users/login", body)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, srv Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
