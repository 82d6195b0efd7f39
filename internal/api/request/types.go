package request

// SubmitGuessRequest is the request body for submitting a guess
type SubmitGuessRequest struct {
	PlayerID string `json:"player_id"`
	Guess    string `json:"guess"`
}
