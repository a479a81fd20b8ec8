package domain

// LowestAvailableSeat returns the first free seat index (0-based) and false when
// every seat is taken.
func LowestAvailableSeat(seats *[Seats]string) (int, bool) {
	for i := 0; i < len(seats); i++ {
		if seats[i] == "" {
			return i, true
		}
	}
	return -1, false
}

// SeatedCount returns how many seats are occupied.
func SeatedCount(seats *[Seats]string) int {
	n := 0
	for _, id := range seats {
		if id != "" {
			n++
		}
	}
	return n
}

// SeatOf returns the seat index holding userID.
func SeatOf(seats *[Seats]string, userID string) (int, bool) {
	for i, id := range seats {
		if id != "" && id == userID {
			return i, true
		}
	}
	return -1, false
}

// PartnerSeat returns the seat across the table.
func PartnerSeat(seat int) int {
	return (seat + 2) % Seats
}
