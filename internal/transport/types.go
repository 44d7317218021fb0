package transport

import "time"

// callerHeader carries the already-authenticated caller identity. Identity
// verification happens upstream of this service.
const callerHeader = "X-Actor-ID"

type createProjectReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      int64     `json:"budget"`
	Deadline    time.Time `json:"deadline"`
}

type assignReq struct {
	Freelancer string `json:"freelancer"`
}

type platformFeeReq struct {
	Pct uint8 `json:"pct"`
}

type topUpReq struct {
	Amount int64 `json:"amount"`
}
