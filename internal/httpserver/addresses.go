package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	addrsvc "customerdesk/internal/service/address"
)

func addressCountsHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := svc.Counts(c.Request.Context(), splitIDs(c.Query("customerIds")))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"counts": counts})
	}
}

func searchAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Search(c.Request.Context(), addrsvc.SearchInput{
			City:    c.Query("city"),
			State:   c.Query("state"),
			Pincode: c.Query("pincode"),
			Page:    intQuery(c, "page"),
			Limit:   intQuery(c, "limit"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, searchPage{
			Data:       toSearchItems(res.Matches),
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		})
	}
}

func addAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addrsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		res, err := svc.Add(c.Request.Context(), c.Param("customerId"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toCustomerPayload(res.Customer, res.Addresses))
	}
}

func updateAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addrsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		res, err := svc.Update(c.Request.Context(), c.Param("customerId"), c.Param("addressId"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCustomerPayload(res.Customer, res.Addresses))
	}
}

func removeAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Remove(c.Request.Context(), c.Param("customerId"), c.Param("addressId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCustomerPayload(res.Customer, res.Addresses))
	}
}
