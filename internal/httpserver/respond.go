package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"customerdesk/internal/domain"
	addrrepo "customerdesk/internal/repository/address"
)

// customerPayload flattens a customer and joins its address list.
type customerPayload struct {
	domain.Customer
	Addresses []domain.Address `json:"addresses"`
}

type customersPage struct {
	Data       []domain.Customer `json:"data"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
}

// searchItem is one reverse-search group: the owning customer and the subset
// of its addresses that matched.
type searchItem struct {
	Customer         domain.Customer  `json:"customer"`
	MatchedAddresses []domain.Address `json:"matchedAddresses"`
}

type searchPage struct {
	Data       []searchItem `json:"data"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
}

func toCustomerPayload(c domain.Customer, addrs []domain.Address) customerPayload {
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return customerPayload{Customer: c, Addresses: addrs}
}

func toSearchItems(matches []addrrepo.Match) []searchItem {
	out := make([]searchItem, 0, len(matches))
	for _, m := range matches {
		addrs := m.Addresses
		if addrs == nil {
			addrs = []domain.Address{}
		}
		out = append(out, searchItem{Customer: m.Customer, MatchedAddresses: addrs})
	}
	return out
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Reason})
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": "email already in use"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

// intQuery reads an integer query parameter; malformed or absent values come
// back as zero and are normalized downstream.
func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// splitIDs parses a comma-separated id list, dropping empty segments.
func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
