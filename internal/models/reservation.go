package models

type Reservation struct {
	UserID int64 `json:"user_id"`
	SeatID int64 `json:"seat_id"`
}

type WaitlistEntry struct {
	UserID   int64 `json:"user_id"`
	Priority int64 `json:"priority"`
}
