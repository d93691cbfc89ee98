package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/blogapi/internal/apperror"
	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/authz"
	"github.com/iudanet/blogapi/internal/server/storage"
	"github.com/iudanet/blogapi/internal/validation"
	"github.com/iudanet/blogapi/pkg/api"
)

// Параметры пагинации списка постов
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PostHandler обрабатывает запросы к постам
type PostHandler struct {
	logger      *slog.Logger
	postStorage storage.PostStorage
}

// NewPostHandler создает новый handler для постов
func NewPostHandler(logger *slog.Logger, postStorage storage.PostStorage) *PostHandler {
	return &PostHandler{
		logger:      logger,
		postStorage: postStorage,
	}
}

// List обрабатывает GET /posts?page=&page_size=
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, pageSize := pagination(r)

	count, err := h.postStorage.CountPosts(ctx)
	if err != nil {
		WriteError(ctx, w, h.logger, apperror.Internal(err))
		return
	}

	totalPages := (count + pageSize - 1) / pageSize
	results := []api.Post{}

	// страница за концом списка пуста; offset не считается, чтобы не переполнить int
	if page <= totalPages {
		posts, err := h.postStorage.ListPosts(ctx, (page-1)*pageSize, pageSize)
		if err != nil {
			WriteError(ctx, w, h.logger, apperror.Internal(err))
			return
		}

		results = make([]api.Post, 0, len(posts))
		for _, p := range posts {
			results = append(results, toAPIPost(p))
		}
	}

	resp := api.PostList{
		Count:      count,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Results:    results,
	}

	WriteJSON(w, h.logger, resp, http.StatusOK)
}

// Create обрабатывает POST /posts; автор - аутентифицированный пользователь
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		WriteError(ctx, w, h.logger, apperror.Token(authz.ReasonMissingToken.Message(), nil))
		return
	}

	body := decodeBody(r)
	input := validation.PostInput{
		Title:   trimmedString(body, "title"),
		Content: trimmedString(body, "content"),
	}

	if err := input.Validate(); err != nil {
		WriteError(ctx, w, h.logger, apperror.Validation(err.Error()))
		return
	}

	post := &models.Post{
		Title:   input.Title,
		Content: input.Content,
		Author:  user.ID,
	}

	if err := h.postStorage.CreatePost(ctx, post); err != nil {
		WriteError(ctx, w, h.logger, apperror.Internal(err))
		return
	}

	h.logger.InfoContext(ctx, "post created",
		slog.Int64("post_id", post.ID),
		slog.Int64("user_id", user.ID))

	WriteJSON(w, h.logger, toAPIPost(post), http.StatusCreated)
}

// Get обрабатывает GET /posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, err := h.loadPost(r)
	if err != nil {
		WriteError(ctx, w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, toAPIPost(post), http.StatusOK)
}

// Update обрабатывает PUT /posts/{id}
// Частичное обновление: меняются только переданные непустые поля
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, post, err := h.loadOwnedPost(r)
	if err != nil {
		WriteError(ctx, w, h.logger, err)
		return
	}

	body := decodeBody(r)
	changed := false

	if title := trimmedString(body, "title"); title != "" && title != post.Title {
		if err := validation.ValidateTitle(title); err != nil {
			WriteError(ctx, w, h.logger, apperror.Validation(err.Error()))
			return
		}
		post.Title = title
		changed = true
	}

	if content := trimmedString(body, "content"); content != "" && content != post.Content {
		post.Content = content
		changed = true
	}

	if changed {
		if err := h.postStorage.UpdatePost(ctx, post); err != nil {
			WriteError(ctx, w, h.logger, h.storageError(err))
			return
		}

		h.logger.InfoContext(ctx, "post updated",
			slog.Int64("post_id", post.ID),
			slog.Int64("user_id", user.ID))
	}

	WriteJSON(w, h.logger, toAPIPost(post), http.StatusOK)
}

// Delete обрабатывает DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, post, err := h.loadOwnedPost(r)
	if err != nil {
		WriteError(ctx, w, h.logger, err)
		return
	}

	if err := h.postStorage.DeletePost(ctx, post.ID); err != nil {
		WriteError(ctx, w, h.logger, h.storageError(err))
		return
	}

	h.logger.InfoContext(ctx, "post deleted",
		slog.Int64("post_id", post.ID),
		slog.Int64("user_id", user.ID))

	WriteJSON(w, h.logger, api.DeleteResponse{Deleted: true}, http.StatusOK)
}

// loadPost находит пост по id из пути; некорректный id считается несуществующим
func (h *PostHandler) loadPost(r *http.Request) (*models.Post, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, apperror.NotFound("not found")
	}

	post, err := h.postStorage.GetPost(r.Context(), id)
	if err != nil {
		return nil, h.storageError(err)
	}

	return post, nil
}

// loadOwnedPost находит пост и проверяет, что текущий пользователь его автор
func (h *PostHandler) loadOwnedPost(r *http.Request) (*models.User, *models.Post, error) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return nil, nil, apperror.Token(authz.ReasonMissingToken.Message(), nil)
	}

	post, err := h.loadPost(r)
	if err != nil {
		return nil, nil, err
	}

	if !authz.CanMutate(post, user) {
		h.logger.WarnContext(r.Context(), "post mutation forbidden",
			slog.Int64("post_id", post.ID),
			slog.Int64("user_id", user.ID))
		return nil, nil, apperror.Authorization("forbidden")
	}

	return user, post, nil
}

func (h *PostHandler) storageError(err error) error {
	if errors.Is(err, storage.ErrPostNotFound) {
		return apperror.NotFound("not found")
	}
	return apperror.Internal(err)
}

// pagination разбирает page и page_size; некорректные значения заменяются на значения по умолчанию
func pagination(r *http.Request) (page, pageSize int) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err = strconv.Atoi(q.Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return page, pageSize
}

func toAPIPost(p *models.Post) api.Post {
	return api.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
	}
}
