package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"lireddit/internal/client"
	"lireddit/internal/config"
	"lireddit/internal/db"
	"lireddit/internal/graph"
	"lireddit/internal/middleware"
	"lireddit/internal/router"
	"lireddit/internal/services"
	"lireddit/internal/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAPI(t *testing.T) string {
	t.Helper()
	gdb, err := db.Open("sqlite://:memory:", "silent")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	schema, err := graph.NewSchema(&graph.Resolver{
		Feed:     services.NewFeedService(gdb),
		Posts:    services.NewPostService(gdb),
		Votes:    services.NewVoteService(gdb),
		Accounts: services.NewAccountService(gdb),
	})
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}
	store, err := middleware.NewSessionStore(&config.Config{SessionStore: "cookie", SessionSecret: "api"})
	if err != nil {
		t.Fatalf("NewSessionStore failed: %v", err)
	}

	r := gin.New()
	router.RegisterRoutes(r, router.Options{
		Schema:     schema,
		Store:      store,
		CORSOrigin: "http://localhost:3000",
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/graphql"
}

func newWeb(t *testing.T, pageSize int) string {
	t.Helper()
	apiURL := newAPI(t)

	clients, err := utils.NewTTLCache[*client.Client](10, time.Hour)
	if err != nil {
		t.Fatalf("NewTTLCache failed: %v", err)
	}
	tmpl, err := LoadTemplates("../../web/templates")
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}

	r := gin.New()
	r.HTMLRender = tmpl
	RegisterRoutes(r, Options{
		Store:     NewWebStore(&config.Config{WebSessionSecret: "web"}),
		Clients:   clients,
		NewClient: func() *client.Client { return client.New(apiURL) },
		PageSize:  pageSize,
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

func newBrowser(t *testing.T, base string) *browser {
	jar, _ := cookiejar.New(nil)
	return &browser{t: t, base: base, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) do(req *http.Request) (int, string, string) {
	b.t.Helper()
	resp, err := b.http.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

func (b *browser) get(path string) (int, string, string) {
	b.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, b.base+path, nil)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values, headers ...string) (int, string, string) {
	b.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return b.do(req)
}

func (b *browser) register(name string) {
	b.t.Helper()
	code, loc, body := b.post("/register", url.Values{
		"username": {name},
		"email":    {name + "@example.com"},
		"password": {"secret"},
	})
	if code != http.StatusSeeOther || loc != "/" {
		b.t.Fatalf("register %s: %d %s %s", name, code, loc, body)
	}
}

var postLink = regexp.MustCompile(`href="/post/(\d+)"`)

func TestAnonymousPages(t *testing.T) {
	b := newBrowser(t, newWeb(t, 10))

	code, _, body := b.get("/")
	if code != http.StatusOK || !strings.Contains(body, `href="/login"`) {
		t.Errorf("Expected feed with a login link, got %d", code)
	}
	// the jar only hands back cookies it would send over plain http
	u, _ := url.Parse(b.base)
	if cookies := b.http.Jar.Cookies(u); len(cookies) != 1 || cookies[0].Name != WebCookieName {
		t.Errorf("Expected the %s cookie to be sent back, got %v", WebCookieName, cookies)
	}

	code, loc, _ := b.get("/create-post")
	if code != http.StatusSeeOther || loc != "/login?next=%2Fcreate-post" {
		t.Errorf("Expected redirect to login, got %d %s", code, loc)
	}

	code, loc, _ = b.post("/vote/1/up", nil)
	if code != http.StatusSeeOther || !strings.HasPrefix(loc, "/login") {
		t.Errorf("Expected a not authenticated vote to go to login, got %d %s", code, loc)
	}

	code, _, _ = b.get("/post/999")
	if code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing post, got %d", code)
	}
}

func TestRegisterErrorsAreShownInline(t *testing.T) {
	b := newBrowser(t, newWeb(t, 10))

	code, _, body := b.post("/register", url.Values{
		"username": {"al"},
		"email":    {"nope"},
		"password": {"secret"},
	})
	if code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", code)
	}
	if !strings.Contains(body, "invalid email") || !strings.Contains(body, "length must be greater than 2") {
		t.Errorf("Expected field errors in the form, got %s", body)
	}
}

func TestCreateVoteAndLoadMore(t *testing.T) {
	b := newBrowser(t, newWeb(t, 2))
	b.register("alice")

	for i := 0; i < 3; i++ {
		code, loc, _ := b.post("/create-post", url.Values{
			"title": {fmt.Sprintf("title %d", i)},
			"text":  {"some **bold** text"},
		})
		if code != http.StatusSeeOther || loc != "/" {
			t.Fatalf("create-post: %d %s", code, loc)
		}
	}

	code, _, body := b.get("/")
	if code != http.StatusOK || !strings.Contains(body, "alice") {
		t.Fatalf("Expected feed for alice, got %d", code)
	}
	if strings.Count(body, `class="card"`) != 2 || !strings.Contains(body, "Load more") {
		t.Fatalf("Expected 2 posts and a load more link, got %s", body)
	}
	if !strings.Contains(body, "title 2") || strings.Contains(body, "title 0") {
		t.Errorf("Expected newest posts first")
	}

	more := regexp.MustCompile(`href="(/\?cursor=[^"]+)"`).FindStringSubmatch(body)
	if more == nil {
		t.Fatalf("Expected a cursor link in %s", body)
	}
	_, _, body = b.get(strings.ReplaceAll(more[1], "&amp;", "&"))
	if strings.Count(body, `class="card"`) != 3 || strings.Contains(body, "Load more") {
		t.Errorf("Expected all 3 posts merged and no more pages, got %s", body)
	}

	m := postLink.FindStringSubmatch(body)
	if m == nil {
		t.Fatal("Expected a post link")
	}
	id := m[1]

	code, _, body = b.post("/vote/"+id+"/up", nil, "HX-Request", "true")
	if code != http.StatusOK || !strings.Contains(body, `<span class="points">1</span>`) || !strings.Contains(body, "active-up") {
		t.Errorf("Expected vote box with 1 point, got %d %s", code, body)
	}
	_, _, body = b.post("/vote/"+id+"/down", nil, "HX-Request", "true")
	if !strings.Contains(body, `<span class="points">-1</span>`) || !strings.Contains(body, "active-down") {
		t.Errorf("Expected the flip to show -1, got %s", body)
	}

	_, _, body = b.get("/post/" + id)
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Errorf("Expected rendered markdown, got %s", body)
	}
	if !strings.Contains(body, "/post/"+id+"/edit") {
		t.Errorf("Expected owner actions on own post")
	}
}

func TestEditDeleteAndLogout(t *testing.T) {
	web := newWeb(t, 10)
	alice := newBrowser(t, web)
	alice.register("alice")
	alice.post("/create-post", url.Values{"title": {"first"}, "text": {"x"}})

	_, _, body := alice.get("/")
	m := postLink.FindStringSubmatch(body)
	if m == nil {
		t.Fatal("Expected a post link")
	}
	id := m[1]

	bob := newBrowser(t, web)
	bob.register("bob")
	if code, _, _ := bob.get("/post/" + id + "/edit"); code != http.StatusForbidden {
		t.Errorf("Expected bob to be refused the edit page, got %d", code)
	}
	if code, _, _ := bob.post("/post/"+id+"/delete", nil); code != http.StatusForbidden {
		t.Errorf("Expected bob's delete to be refused, got %d", code)
	}

	code, loc, _ := alice.post("/post/"+id+"/edit", url.Values{"title": {"renamed"}})
	if code != http.StatusSeeOther || loc != "/post/"+id {
		t.Fatalf("edit: %d %s", code, loc)
	}
	if _, _, body = alice.get("/post/" + id); !strings.Contains(body, "renamed") {
		t.Errorf("Expected the new title on the detail page")
	}

	if code, _, _ = alice.post("/post/"+id+"/delete", nil); code != http.StatusSeeOther {
		t.Errorf("Expected delete to redirect, got %d", code)
	}
	if _, _, body = alice.get("/"); strings.Contains(body, "renamed") {
		t.Errorf("Expected the deleted post to leave the feed")
	}

	alice.post("/logout", nil)
	if _, _, body = alice.get("/"); !strings.Contains(body, `href="/login"`) {
		t.Errorf("Expected to be logged out")
	}
}
