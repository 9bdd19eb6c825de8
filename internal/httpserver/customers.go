package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	custsvc "customerdesk/internal/service/customer"
)

func listCustomersHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.List(c.Request.Context(), custsvc.ListInput{
			Search: c.Query("search"),
			Page:   intQuery(c, "page"),
			Limit:  intQuery(c, "limit"),
			Sort:   c.Query("sort"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, customersPage{
			Data:       res.Customers,
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		})
	}
}

func getCustomerHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCustomerPayload(detail.Customer, detail.Addresses))
	}
}

func createCustomerHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in custsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		detail, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toCustomerPayload(detail.Customer, detail.Addresses))
	}
}

func updateCustomerHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in custsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		detail, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCustomerPayload(detail.Customer, detail.Addresses))
	}
}

func deleteCustomerHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
