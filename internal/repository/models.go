package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Booking struct {
	ID          uuid.UUID             `json:"id"`
	FlightID    int64                 `json:"flight_id"`
	Passenger   pqtype.NullRawMessage `json:"passenger"`
	Status      string                `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	ConfirmedAt sql.NullTime          `json:"confirmed_at"`
}

type Deal struct {
	FlightID        int64 `json:"flight_id"`
	DiscountPercent int32 `json:"discount_percent"`
	Position        int32 `json:"position"`
}

type Flight struct {
	ID          int64     `json:"id"`
	Number      string    `json:"number"`
	Airline     string    `json:"airline"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartAt    time.Time `json:"depart_at"`
	ArriveAt    time.Time `json:"arrive_at"`
	FareVnd     int64     `json:"fare_vnd"`
	Amenities   []string  `json:"amenities"`
}

type Place struct {
	ID       int64  `json:"id"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Code     string `json:"code"`
	ImageKey string `json:"image_key"`
	Position int32  `json:"position"`
}

type Post struct {
	ID           int64     `json:"id"`
	Category     string    `json:"category"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	BodyMarkdown string    `json:"body_markdown"`
	PublishedAt  time.Time `json:"published_at"`
}

type Job struct {
	ID           uuid.UUID       `json:"id"`
	JobType      string          `json:"job_type"`
	Payload      json.RawMessage `json:"payload"`
	Status       string          `json:"status"`
	Priority     int32           `json:"priority"`
	Attempts     int32           `json:"attempts"`
	MaxAttempts  int32           `json:"max_attempts"`
	ScheduledAt  time.Time       `json:"scheduled_at"`
	StartedAt    sql.NullTime    `json:"started_at"`
	CompletedAt  sql.NullTime    `json:"completed_at"`
	ErrorMessage sql.NullString  `json:"error_message"`
	CreatedAt    time.Time       `json:"created_at"`
}
