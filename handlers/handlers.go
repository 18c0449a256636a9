package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"techStore/entities"
	"techStore/models"
	"techStore/repository"
	"techStore/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const cartCookie = "cartSessionId"

type Handler struct {
	ps  *services.ProductService
	cs  *services.CartService
	cos *services.CheckoutService
	cas *services.CategoryService
	sr  repository.SessionRepository
	ttl time.Duration
}

type HandlerParams struct {
	Engine     *services.Engine
	SessionRep repository.SessionRepository
	SessionTTL time.Duration
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		ps:  params.Engine.Products,
		cs:  params.Engine.Cart,
		cos: params.Engine.Checkout,
		cas: params.Engine.Categories,
		sr:  params.SessionRep,
		ttl: params.SessionTTL,
	}
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to the tech store!"))
}

// product

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = models.AllCategories
	}

	prods, err := h.ps.Query(r.Context(), search, category)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	previews := make([]entities.ProductPreview, 0, len(prods))
	for _, p := range prods {
		previews = append(previews, entities.NewProductPreview(p))
	}
	writeJSON(w, http.StatusOK, previews)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productId(w, r)
	if !ok {
		return
	}
	prod, err := h.ps.GetProductById(r.Context(), id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prod)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var form entities.ProductForm
	err := json.NewDecoder(r.Body).Decode(&form)
	if err != nil {
		zap.L().Debug("CreateProduct: unmarshal", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	prod, err := h.ps.AddProduct(r.Context(), form.Draft())
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, prod)
}

// RemoveProduct only deletes with ?confirm=true; otherwise it answers with
// the prompt the client should show before retrying.
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productId(w, r)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	err := h.ps.RemoveProduct(r.Context(), id, confirmed)
	if errors.Is(err, models.ErrConfirmationRequired) {
		writeJSON(w, http.StatusPreconditionRequired, entities.ConfirmationPrompt{
			Message:   "Are you sure?",
			ProductId: id,
			Confirm:   r.URL.Path + "?confirm=true",
		})
		return
	}
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// categories

func (h *Handler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cas.GetAllCategories())
}

func (h *Handler) GetCategoryWithProducts(w http.ResponseWriter, r *http.Request) {
	prods, err := h.cas.GetCategoryWithProducts(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	previews := make([]entities.ProductPreview, 0, len(prods))
	for _, p := range prods {
		previews = append(previews, entities.NewProductPreview(p))
	}
	writeJSON(w, http.StatusOK, previews)
}

// cart

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartSessionId, ok := h.existingSession(r)
	if !ok {
		writeJSON(w, http.StatusOK, entities.CartResponse{Products: []entities.CartItem{}})
		return
	}
	h.writeCart(w, r, cartSessionId)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.cartOperation(w, r, h.cs.AddToCart)
}

func (h *Handler) IncreaseQty(w http.ResponseWriter, r *http.Request) {
	h.cartOperation(w, r, h.cs.IncreaseQty)
}

func (h *Handler) DecreaseQty(w http.ResponseWriter, r *http.Request) {
	h.cartOperation(w, r, h.cs.DecreaseQty)
}

func (h *Handler) DeleteFromCart(w http.ResponseWriter, r *http.Request) {
	h.cartOperation(w, r, h.cs.RemoveLine)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartSessionId, ok := h.existingSession(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.cs.ClearCart(r.Context(), cartSessionId); err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) cartOperation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, cartSessionId string, prodId int) error) {
	id, ok := productId(w, r)
	if !ok {
		return
	}
	cartSessionId, err := h.session(w, r)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	if err = op(r.Context(), cartSessionId, id); err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeCart(w, r, cartSessionId)
}

func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, cartSessionId string) {
	cart, err := h.cs.GetCartItems(r.Context(), cartSessionId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// checkout

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartSessionId, ok := h.existingSession(r)
	if !ok {
		WriteErrorResponse(w, models.ErrEmptyCart)
		return
	}
	res, err := h.cos.Checkout(r.Context(), cartSessionId)
	switch {
	case res.State == models.CheckoutRejected:
		writeJSON(w, http.StatusConflict, entities.CheckoutResponse{
			Status:  res.State.String(),
			Reason:  res.Failure.Error(),
			Product: &res.Failure.ProductId,
		})
		return
	case res.State == models.CheckoutCommitted:
		if err != nil {
			zap.L().Error("Checkout: committed with storage error", zap.Error(err))
		}
		receipt := entities.NewReceiptResponse(res.Receipt)
		writeJSON(w, http.StatusCreated, entities.CheckoutResponse{
			Status:  res.State.String(),
			Receipt: &receipt,
		})
		return
	case err != nil:
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	cartSessionId, ok := h.existingSession(r)
	if !ok {
		WriteErrorResponse(w, models.ErrNotFoundError)
		return
	}
	receipt, exists, err := h.cos.LastReceipt(r.Context(), cartSessionId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	if !exists {
		WriteErrorResponse(w, models.ErrNotFoundError)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReceiptResponse(receipt))
}

func (h *Handler) DismissReceipt(w http.ResponseWriter, r *http.Request) {
	cartSessionId, ok := h.existingSession(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.cos.DismissReceipt(r.Context(), cartSessionId); err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session

func (h *Handler) existingSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(cartCookie)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// session returns the cart session of the request, creating one and setting
// the cookie when the request has none or its session expired.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (cartSessionId string, err error) {
	if id, ok := h.existingSession(r); ok {
		var exists bool
		exists, err = h.sr.CheckSession(r.Context(), id)
		if err != nil {
			return
		}
		if exists {
			err = h.sr.RefreshSession(r.Context(), id)
			cartSessionId = id
			return
		}
	}
	cartSessionId, err = h.sr.CreateSession(r.Context())
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    cartSessionId,
		Path:     "/",
		Expires:  time.Now().Add(h.ttl),
		HttpOnly: true,
	})
	return
}

// middleware

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("panic occured", zap.Any("panic", rec), zap.String("stacktrace", string(debug.Stack())))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogMiddleware tags each request with an X-Request-ID and logs it on completion.
func (h *Handler) RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		zap.L().Info("HTTP Request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

func productId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		zap.L().Debug("productId: parse", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		zap.L().Error("writeJSON: marshal", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrMissingProduct), errors.Is(err, models.ErrNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrStockExhausted),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrStockUnavailableAtCheckout):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrConfirmationRequired):
		http.Error(w, err.Error(), http.StatusPreconditionRequired)
	default:
		http.Error(w, models.ErrServerError.Error(), http.StatusInternalServerError)
	}
}
