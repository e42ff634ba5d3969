package game

// Session is a read-only snapshot of the machine after a transition. Maps and
// slices are copies; CurrentQuestion points at the immutable bank record.
type Session struct {
	Phase                   Phase         `json:"phase"`
	Generation              uint64        `json:"generation"`
	Players                 []Player      `json:"players"`
	CurrentPlayerIndex      int           `json:"current_player_index"`
	TargetScore             int           `json:"target_score"`
	CurrentQuestion         *Question     `json:"current_question,omitempty"`
	UsedQuestionIDs         map[int][]int `json:"used_question_ids"`
	ConsecutiveCorrect      map[int]int   `json:"consecutive_correct"`
	PendingSharedBonusOffer bool          `json:"pending_shared_bonus_offer"`
	OfferPlayerID           int           `json:"offer_player_id,omitempty"`
	GameFinished            bool          `json:"game_finished"`
	Winners                 []Player      `json:"winners"`
}

// CurrentPlayer returns the player whose turn it is.
func (s Session) CurrentPlayer() (Player, bool) {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

// Player looks a player up by id.
func (s Session) Player(id int) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// HasUsed reports whether a player has already been shown a question.
func (s Session) HasUsed(playerID, questionID int) bool {
	for _, id := range s.UsedQuestionIDs[playerID] {
		if id == questionID {
			return true
		}
	}
	return false
}

// OtherPlayers lists everyone except the given player, in turn order.
func (s Session) OtherPlayers(playerID int) []Player {
	others := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.ID != playerID {
			others = append(others, p)
		}
	}
	return others
}
