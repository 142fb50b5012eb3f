package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/hsuehlab/shopline-middleware/internal/shopline"
)

// bearerToken extracts the caller's bearer credential, empty when absent.
// The proxy forwards it upstream without validating or refreshing it.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func listParams(r *http.Request) shopline.ListParams {
	q := r.URL.Query()
	var p shopline.ListParams
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		p.Limit = n
	}
	p.Status = q.Get("status")
	return p
}

func (s *Server) writeUpstream(w http.ResponseWriter, r *http.Request, raw any, err error) {
	if err != nil {
		var ue *shopline.UpstreamError
		if errors.As(err, &ue) {
			writeError(w, ue.StatusCode, ue.Body)
			return
		}
		s.logger.Error("shopline proxy failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	writeData(w, http.StatusOK, raw, "ok")
}

// handleShoplineShop handles GET /api/shopline/shop.
func (s *Server) handleShoplineShop(w http.ResponseWriter, r *http.Request) {
	raw, err := s.shopline.Shop(r.Context(), bearerToken(r))
	s.writeUpstream(w, r, raw, err)
}

// handleShoplineProducts handles GET /api/shopline/products.
func (s *Server) handleShoplineProducts(w http.ResponseWriter, r *http.Request) {
	raw, err := s.shopline.Products(r.Context(), bearerToken(r), listParams(r))
	s.writeUpstream(w, r, raw, err)
}

// handleShoplineOrders handles GET /api/shopline/orders.
func (s *Server) handleShoplineOrders(w http.ResponseWriter, r *http.Request) {
	raw, err := s.shopline.Orders(r.Context(), bearerToken(r), listParams(r))
	s.writeUpstream(w, r, raw, err)
}
