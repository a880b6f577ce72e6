// Package api holds the request and response types of the booking HTTP surface.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type CreateShowtimeRequest struct {
	MovieId     int             `json:"movieId" validate:"required,gt=0"`
	ScreenId    int             `json:"screenId" validate:"required,gt=0"`
	StartTime   time.Time       `json:"startTime" validate:"required,future"`
	TicketPrice decimal.Decimal `json:"ticketPrice" validate:"positive_amount"`
}

type UpdateShowtimeRequest struct {
	StartTime   *time.Time       `json:"startTime,omitempty" validate:"omitempty,future"`
	TicketPrice *decimal.Decimal `json:"ticketPrice,omitempty" validate:"omitempty,positive_amount"`
}

type ShowtimeResponse struct {
	Id          int             `json:"id"`
	MovieId     int             `json:"movieId"`
	ScreenId    int             `json:"screenId"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"`
	TicketPrice decimal.Decimal `json:"ticketPrice"`
}

type Seat struct {
	Id        int    `json:"id"`
	Label     string `json:"label"`
	Row       string `json:"row"`
	Column    int    `json:"column"`
	Available bool   `json:"available"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId int       `json:"showtimeId"`
	ScreenId   int       `json:"screenId"`
	TheaterId  int       `json:"theaterId"`
	SeatRows   []SeatRow `json:"seatRows"`
}

type SeatAvailabilityResponse struct {
	ShowtimeId int  `json:"showtimeId"`
	SeatId     int  `json:"seatId"`
	Available  bool `json:"available"`
}

type CreateReservationRequest struct {
	UserId     int   `json:"userId" validate:"required,gt=0"`
	SeatIdList []int `json:"seatIdList" validate:"required,min=1,dive,gt=0"`
}

type ReservationSeat struct {
	SeatId int    `json:"seatId"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

type ReservationResponse struct {
	Id          int               `json:"id"`
	Reference   uuid.UUID         `json:"reference"`
	UserId      int               `json:"userId"`
	ShowtimeId  int               `json:"showtimeId"`
	Status      string            `json:"status"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	HoldExpiry  *time.Time        `json:"holdExpiry,omitempty"`
	Seats       []ReservationSeat `json:"seats"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type ReservationSummary struct {
	Id          int             `json:"id"`
	Reference   uuid.UUID       `json:"reference"`
	ShowtimeId  int             `json:"showtimeId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	SeatCount   int             `json:"seatCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type UserReservationsResponse struct {
	Reservations []ReservationSummary `json:"reservations"`
	Metadata     Metadata             `json:"metadata"`
}

type ShowtimeReservationsResponse struct {
	ShowtimeId   int                  `json:"showtimeId"`
	Reservations []ReservationSummary `json:"reservations"`
}
