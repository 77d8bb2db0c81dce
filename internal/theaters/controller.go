package theaters

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinetix/internal/shared/utils/response"
)

type Controller interface {
	CreateTheater(c *gin.Context)
	GetTheater(c *gin.Context)
	UpdateTheater(c *gin.Context)
	DeleteTheater(c *gin.Context)
	GetAllTheaters(c *gin.Context)
	AddSeat(c *gin.Context)
	GetSeats(c *gin.Context)
	DeleteSeat(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateTheater(c *gin.Context) {
	var req CreateTheaterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	theater, err := ctrl.service.CreateTheater(req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Theater created successfully", theater, nil)
}

func (ctrl *controller) GetTheater(c *gin.Context) {
	theaterID, err := uuid.Parse(c.Param("theaterId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater ID", nil, err.Error())
		return
	}

	theater, err := ctrl.service.GetTheaterByID(theaterID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Theater retrieved successfully", theater, nil)
}

func (ctrl *controller) UpdateTheater(c *gin.Context) {
	theaterID, err := uuid.Parse(c.Param("theaterId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater ID", nil, err.Error())
		return
	}

	var req UpdateTheaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	theater, err := ctrl.service.UpdateTheater(theaterID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Theater updated successfully", theater, nil)
}

func (ctrl *controller) DeleteTheater(c *gin.Context) {
	theaterID, err := uuid.Parse(c.Param("theaterId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteTheater(theaterID); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Theater deleted successfully", nil, nil)
}

func (ctrl *controller) GetAllTheaters(c *gin.Context) {
	theaters, err := ctrl.service.GetAllTheaters()
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Theaters retrieved successfully", theaters, nil)
}

func (ctrl *controller) AddSeat(c *gin.Context) {
	theaterID, err := uuid.Parse(c.Param("theaterId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater ID", nil, err.Error())
		return
	}

	var req AddSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	seat, err := ctrl.service.AddSeat(theaterID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seat added successfully", seat, nil)
}

func (ctrl *controller) GetSeats(c *gin.Context) {
	theaterID, err := uuid.Parse(c.Param("theaterId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater ID", nil, err.Error())
		return
	}

	var query SeatListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	seats, err := ctrl.service.GetSeats(theaterID, query)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

func (ctrl *controller) DeleteSeat(c *gin.Context) {
	theaterID, err := uuid.Parse(c.Param("theaterId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater ID", nil, err.Error())
		return
	}

	seatID, err := uuid.Parse(c.Param("seatId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid seat ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteSeat(theaterID, seatID); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat deleted successfully", nil, nil)
}
