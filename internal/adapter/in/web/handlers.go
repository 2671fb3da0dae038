package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/adapter/in/auth"
	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/logger"
	"yatube/pkg/pagination"

	"github.com/go-chi/chi/v5"
)

const loginURL = "/auth/login/"

type PostService interface {
	CreatePost(ctx context.Context, id model.Identity, req service.CreatePostRequest) (model.Post, error)
	EditPost(ctx context.Context, id model.Identity, postID int64, req service.EditPostRequest) (model.Post, error)
	GetPost(ctx context.Context, postID int64) (model.Post, error)
	ListPosts(ctx context.Context, filter model.PostFilter, page int) (pagination.Page[model.Post], error)
}

type GroupService interface {
	GetGroupBySlug(ctx context.Context, slug string) (model.Group, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
}

type UserService interface {
	SignUp(ctx context.Context, req service.SignUpRequest) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.Identity, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

type Handlers struct {
	renderer Renderer
	sessions *auth.Sessions
	posts    PostService
	groups   GroupService
	users    UserService
}

func NewHandlers(renderer Renderer, sessions *auth.Sessions, posts PostService, groups GroupService, users UserService) *Handlers {
	return &Handlers{
		renderer: renderer,
		sessions: sessions,
		posts:    posts,
		groups:   groups,
		users:    users,
	}
}

// layout is embedded into every page payload.
type layout struct {
	Viewer model.Identity
}

type FeedPage struct {
	layout
	Page pagination.Page[model.Post]
}

type GroupPage struct {
	layout
	Group model.Group
	Page  pagination.Page[model.Post]
}

type ProfilePage struct {
	layout
	Author model.User
	Page   pagination.Page[model.Post]
}

type PostDetailPage struct {
	layout
	Post        model.Post
	AuthorPosts int
	CanEdit     bool
}

type PostForm struct {
	Text  string
	Group string
}

type PostFormPage struct {
	layout
	Form   PostForm
	Groups []model.Group
	IsEdit bool
	PostID int64
	Errors []string
}

type AuthFormPage struct {
	layout
	Username string
	Next     string
	Errors   []string
}

type NotFoundPage struct {
	layout
	Path string
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListPosts(r.Context(), model.PostFilter{}, pageNumber(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index.html", FeedPage{layout: viewer(r), Page: page})
}

func (h *Handlers) GroupPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	group, err := h.groups.GetGroupBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.posts.ListPosts(ctx, model.PostFilter{GroupSlug: group.Slug}, pageNumber(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "group_list.html", GroupPage{layout: viewer(r), Group: group, Page: page})
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	author, err := h.users.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.posts.ListPosts(ctx, model.PostFilter{Username: author.Username}, pageNumber(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "profile.html", ProfilePage{layout: viewer(r), Author: author, Page: page})
}

func (h *Handlers) PostDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, err := h.posts.GetPost(ctx, postID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	authored, err := h.posts.ListPosts(ctx, model.PostFilter{Username: post.Author}, 1)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := viewer(r)
	h.render(w, r, http.StatusOK, "post_detail.html", PostDetailPage{
		layout:      v,
		Post:        post,
		AuthorPosts: authored.Total,
		CanEdit:     service.CanEdit(v.Viewer, post),
	})
}

func (h *Handlers) CreatePostForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireLogin(w, r) {
		return
	}
	h.renderPostForm(w, r, http.StatusOK, PostFormPage{})
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	if !h.requireLogin(w, r) {
		return
	}
	form, groupID, err := readPostForm(r)
	if err != nil {
		h.renderPostForm(w, r, http.StatusBadRequest, PostFormPage{Form: form, Errors: []string{err.Error()}})
		return
	}

	id := auth.FromContext(r.Context())
	_, err = h.posts.CreatePost(r.Context(), id, service.CreatePostRequest{Text: form.Text, GroupID: groupID})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			h.renderPostForm(w, r, http.StatusBadRequest, PostFormPage{Form: form, Errors: []string{formError(err)}})
			return
		}
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile/"+url.PathEscape(id.Username)+"/", http.StatusFound)
}

func (h *Handlers) EditPostForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireLogin(w, r) {
		return
	}
	post, err := h.posts.GetPost(r.Context(), postID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !service.CanEdit(auth.FromContext(r.Context()), post) {
		redirectToPost(w, r, post.ID)
		return
	}

	form := PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatInt(*post.GroupID, 10)
	}
	h.renderPostForm(w, r, http.StatusOK, PostFormPage{Form: form, IsEdit: true, PostID: post.ID})
}

func (h *Handlers) EditPost(w http.ResponseWriter, r *http.Request) {
	if !h.requireLogin(w, r) {
		return
	}
	id := postID(r)
	form, groupID, err := readPostForm(r)
	if err != nil {
		h.renderPostForm(w, r, http.StatusBadRequest, PostFormPage{Form: form, IsEdit: true, PostID: id, Errors: []string{err.Error()}})
		return
	}

	post, err := h.posts.EditPost(r.Context(), auth.FromContext(r.Context()), id, service.EditPostRequest{Text: form.Text, GroupID: groupID})
	switch {
	case err == nil:
		redirectToPost(w, r, post.ID)
	case errors.Is(err, service.ErrForbidden):
		redirectToPost(w, r, id)
	case errors.Is(err, service.ErrInvalidRequest):
		h.renderPostForm(w, r, http.StatusBadRequest, PostFormPage{Form: form, IsEdit: true, PostID: id, Errors: []string{formError(err)}})
	default:
		h.fail(w, r, err)
	}
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", AuthFormPage{layout: viewer(r), Next: r.URL.Query().Get("next")})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.html", AuthFormPage{layout: viewer(r), Errors: []string{"malformed form"}})
		return
	}
	username := r.PostForm.Get("username")
	next := r.PostForm.Get("next")

	id, err := h.users.Authenticate(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			h.render(w, r, http.StatusBadRequest, "login.html", AuthFormPage{
				layout:   viewer(r),
				Username: username,
				Next:     next,
				Errors:   []string{"wrong username or password"},
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	if err := h.sessions.Login(w, r, id); err != nil {
		h.fail(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("user logged in", "user_id", id.UserID)
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (h *Handlers) SignUpForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup.html", AuthFormPage{layout: viewer(r)})
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "signup.html", AuthFormPage{layout: viewer(r), Errors: []string{"malformed form"}})
		return
	}
	username := r.PostForm.Get("username")

	user, err := h.users.SignUp(r.Context(), service.SignUpRequest{
		Username: username,
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, service.ErrAlreadyExists):
			msg = "a user with that username already exists"
		case errors.Is(err, service.ErrInvalidRequest):
			msg = formError(err)
		default:
			h.fail(w, r, err)
			return
		}
		h.render(w, r, http.StatusBadRequest, "signup.html", AuthFormPage{layout: viewer(r), Username: username, Errors: []string{msg}})
		return
	}

	if err := h.sessions.Login(w, r, user.Identity()); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found.html", NotFoundPage{layout: viewer(r), Path: r.URL.Path})
}

func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) renderPostForm(w http.ResponseWriter, r *http.Request, status int, data PostFormPage) {
	groups, err := h.groups.ListGroups(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data.layout = viewer(r)
	data.Groups = groups
	h.render(w, r, status, "create_post.html", data)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.renderer.Render(w, status, name, data); err != nil {
		logger.FromContext(r.Context()).Error("render page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// fail maps service errors onto responses.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.NotFound(w, r)
	case errors.Is(err, service.ErrUnauthenticated):
		redirectToLogin(w, r)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidRequest):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handlers) requireLogin(w http.ResponseWriter, r *http.Request) bool {
	if auth.FromContext(r.Context()).Authenticated() {
		return true
	}
	redirectToLogin(w, r)
	return false
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, loginURL+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

func redirectToPost(w http.ResponseWriter, r *http.Request, id int64) {
	http.Redirect(w, r, "/posts/"+strconv.FormatInt(id, 10)+"/", http.StatusFound)
}

// safeNext only follows local redirects.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func readPostForm(r *http.Request) (PostForm, *int64, error) {
	if err := r.ParseForm(); err != nil {
		return PostForm{}, nil, errors.New("malformed form")
	}
	form := PostForm{
		Text:  r.PostForm.Get("text"),
		Group: strings.TrimSpace(r.PostForm.Get("group")),
	}
	if form.Group == "" {
		return form, nil, nil
	}
	id, err := strconv.ParseInt(form.Group, 10, 64)
	if err != nil || id <= 0 {
		return form, nil, errors.New("select a valid group")
	}
	return form, &id, nil
}

func formError(err error) string {
	return strings.TrimPrefix(err.Error(), service.ErrInvalidRequest.Error()+": ")
}

func viewer(r *http.Request) layout {
	return layout{Viewer: auth.FromContext(r.Context())}
}

func pageNumber(r *http.Request) int {
	return pagination.ParsePage(r.URL.Query().Get("page"))
}

// postID yields 0 for malformed ids, which the service reports as not found.
func postID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
