package nakama

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"president/internal/app"
	"president/internal/domain"
)

// encodePayload renders fields as protojson so clients can read payloads as plain JSON.
func encodePayload(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}
	return protojson.Marshal(s)
}

// decodePayload parses a client message. Empty data yields an empty struct.
func decodePayload(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return s, nil
}

func stringField(s *structpb.Struct, key string) string {
	if v, ok := s.GetFields()[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func intField(s *structpb.Struct, key string) (int, bool) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return 0, false
	}
	return int(v.GetNumberValue()), true
}

func cardValue(c domain.Card) map[string]interface{} {
	return map[string]interface{}{
		"name":  c.Name(),
		"label": c.String(),
		"rank":  int(c.Rank),
		"suit":  int(c.Suit),
	}
}

func cardList(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardValue(c))
	}
	return out
}

func countsValue(c domain.TitleCounts) map[string]interface{} {
	return map[string]interface{}{
		"president":      c.President,
		"vice_president": c.VicePresident,
		"middle":         c.Middle,
		"vice_bum":       c.ViceBum,
		"bum":            c.Bum,
	}
}

func snapshotFields(s app.Snapshot) map[string]interface{} {
	seats := make([]interface{}, 0, domain.NumSeats)
	for _, v := range s.Seats {
		seats = append(seats, map[string]interface{}{
			"seat":       int(v.Seat),
			"name":       v.Name,
			"card_count": v.CardCount,
			"title":      v.Title.String(),
			"last_title": v.LastTitle.String(),
			"active":     v.Active,
			"tally":      countsValue(v.Tally),
		})
	}
	exchanges := make([]interface{}, 0, len(s.Exchanges))
	for _, x := range s.Exchanges {
		exchanges = append(exchanges, map[string]interface{}{
			"from":  int(x.From),
			"to":    int(x.To),
			"cards": cardList(x.Cards),
		})
	}
	fields := map[string]interface{}{
		"match_id":          s.MatchID,
		"phase":             string(s.Phase),
		"round":             s.Round,
		"rounds_configured": s.RoundsConfigured,
		"rounds_played":     s.RoundsPlayed,
		"difficulty":        string(s.Difficulty),
		"hand":              cardList(s.Hand),
		"legal":             cardList(s.Legal),
		"seats":             seats,
		"pile_size":         s.PileSize,
		"discards":          s.Discards,
		"current":           int(s.Current),
		"open_lead":         s.OpenLead,
		"exchanges":         exchanges,
		"message":           s.Message,
		"match_ended":       s.MatchEnded,
	}
	if s.PileTop != nil {
		fields["pile_top"] = cardValue(*s.PileTop)
	}
	return fields
}

// eventFields flattens an app event. ok is false for payloads the client is not sent.
func eventFields(ev app.Event) (fields map[string]interface{}, ok bool) {
	fields = map[string]interface{}{"kind": string(ev.Kind)}
	switch p := ev.Payload.(type) {
	case app.RoundStartedPayload:
		fields["round"] = p.Round
		fields["opener"] = int(p.Opener)
	case app.CardsExchangedPayload:
		fields["from"] = int(p.From)
		fields["to"] = int(p.To)
		fields["cards"] = cardList(p.Cards)
	case app.CardPlayedPayload:
		fields["seat"] = int(p.Seat)
		fields["card"] = cardValue(p.Card)
		fields["next"] = int(p.Next)
	case app.TurnPassedPayload:
		fields["seat"] = int(p.Seat)
		fields["next"] = int(p.Next)
	case app.PileClearedPayload:
		fields["reason"] = p.Reason.String()
		fields["leader"] = int(p.Leader)
	case app.PlayerFinishedPayload:
		fields["seat"] = int(p.Seat)
		fields["title"] = p.Title.String()
	case app.RoundEndedPayload:
		titles := make(map[string]interface{}, len(p.Titles))
		for seat, title := range p.Titles {
			titles[fmt.Sprint(int(seat))] = title.String()
		}
		fields["round"] = p.Round
		fields["titles"] = titles
	case app.MatchEndedPayload:
		tallies := make([]interface{}, 0, domain.NumSeats)
		for _, t := range p.Report.Tallies {
			tallies = append(tallies, countsValue(t))
		}
		fields["match_id"] = p.Report.MatchID
		fields["final_title"] = p.Report.FinalTitle.String()
		fields["games_played"] = p.Report.GamesPlayed
		fields["tallies"] = tallies
	default:
		return nil, false
	}
	return fields, true
}

func opCodeFor(kind app.EventKind) int64 {
	switch kind {
	case app.EventRoundEnded:
		return OpRoundEnded
	case app.EventMatchEnded:
		return OpMatchEnded
	default:
		return OpGameEvent
	}
}

// matchLabel is searchable through MatchList queries such as "+label.state:playing".
func matchLabel(state *MatchState) (string, error) {
	phase := "lobby"
	switch {
	case state.Controller.Ended():
		phase = "ended"
	case state.Controller.Current() != domain.SeatNone:
		phase = "playing"
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":       "president",
		"state":      phase,
		"owner":      state.UserID,
		"difficulty": string(state.Difficulty),
		"rounds":     state.Rounds,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
