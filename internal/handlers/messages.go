package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.board/internal/model"
)

type MessageService interface {
	List() ([]model.Message, error)
	Create(params *model.CreateMessageParams) (*model.Message, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

func Register(server *echo.Echo, messageService MessageService) {
	api := server.Group("/api")
	api.GET("/messages", ListMessages(messageService))
	api.POST("/messages", CreateMessage(messageService))
}

func ListMessages(messageService MessageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		messages, err := messageService.List()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, messages)
	}
}

func CreateMessage(messageService MessageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreateMessageParams{}
		if err := c.Bind(params); err != nil {
			// an unreadable body has no message in it
			return c.JSON(http.StatusBadRequest, &errorResponse{model.ErrorMessageRequired.Error()})
		}

		message, err := messageService.Create(params)
		if err != nil {
			if text, ok := model.ValidationMessage(err); ok {
				return c.JSON(http.StatusBadRequest, &errorResponse{text})
			}
			return err
		}

		return c.JSON(http.StatusCreated, message)
	}
}
