package server

import (
	"net/http"

	orderdomain "github.com/darsh196/learnzone/internal/order/domain"
	"github.com/gin-gonic/gin"
)

// PlaceOrder accepts the submitted body as-is: lessonIDs drive the
// inventory decrements, every other field is stored as customer metadata.
// A body without lessonIDs is a valid empty order.
func (s *Server) PlaceOrder(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lessonIDs, err := extractLessonIDs(body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	delete(body, "lessonIDs")

	resp, err := s.orderSvc.PlaceOrder(c.Request.Context(), orderdomain.PlaceOrderRequest{
		LessonIDs: lessonIDs,
		Customer:  body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order saved",
		"orderId": resp.ID,
	})
}

func (s *Server) ListOrders(c *gin.Context) {
	resp, err := s.orderSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func extractLessonIDs(body map[string]any) ([]int64, error) {
	raw, ok := body["lessonIDs"]
	if !ok || raw == nil {
		return nil, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, newValidationError("lessonIDs", "invalid_lesson_ids", "lessonIDs must be an array of lesson ids")
	}

	ids := make([]int64, 0, len(list))
	for _, item := range list {
		n, ok := item.(float64)
		if !ok || n != float64(int64(n)) {
			return nil, newValidationError("lessonIDs", "invalid_lesson_ids", "lessonIDs must be an array of lesson ids")
		}
		ids = append(ids, int64(n))
	}
	return ids, nil
}
