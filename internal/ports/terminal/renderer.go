package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"president/internal/app"
	"president/internal/domain"
	"president/internal/ports"
)

// Renderer draws the table and match summaries with pterm.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Table prints the whole table: opponents on top, the pile in the middle and the human below.
func (r *Renderer) Table(s app.Snapshot) error {
	text, err := RenderSnapshot(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(r.out, text)
	return err
}

// Event prints a one line description of ev. Events hidden from the human are skipped.
func (r *Renderer) Event(ev app.Event, names func(domain.Seat) string) {
	if line, ok := DescribeEvent(ev, names); ok {
		fmt.Fprint(r.out, line)
	}
}

func (r *Renderer) Leaderboard(entries []ports.LeaderboardEntry) error {
	text, err := RenderLeaderboard(entries)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(r.out, text)
	return err
}

func (r *Renderer) Report(s app.Snapshot) error {
	text, err := RenderStandings(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(r.out, text)
	return err
}

// Line prints a plain message.
func (r *Renderer) Line(format string, args ...interface{}) {
	fmt.Fprint(r.out, pterm.Sprintfln(format, args...))
}

// Warn prints a rejected action or input error.
func (r *Renderer) Warn(format string, args ...interface{}) {
	fmt.Fprint(r.out, pterm.LightRed(pterm.Sprintfln(format, args...)))
}

// RenderSnapshot renders s as nested pterm panels.
func RenderSnapshot(s app.Snapshot) (string, error) {
	var opponents []pterm.Panel
	for _, seat := range domain.Seats[1:] {
		opponents = append(opponents, pterm.Panel{Data: seatBox(s, s.Seats[seat])})
	}

	dashboard := []pterm.Panel{{Data: handBox(s)}}
	if len(s.Exchanges) > 0 {
		dashboard = append(dashboard, pterm.Panel{Data: exchangeBox(s)})
	}

	return pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		opponents,
		{{Data: boardBox(s)}},
		dashboard,
	}).Srender()
}

func seatBox(s app.Snapshot, v app.SeatView) string {
	pbox := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2)
	title := v.Name
	if s.Current == v.Seat {
		title = pterm.LightCyan("> " + v.Name)
	}

	var status string
	switch {
	case v.Title != domain.TitleNone:
		status = pterm.LightGreen(v.Title.String())
	case !v.Active:
		status = pterm.LightRed("Out")
	default:
		status = fmt.Sprintf("%d cards", v.CardCount)
	}
	last := "-"
	if v.LastTitle != domain.TitleNone {
		last = v.LastTitle.String()
	}
	return pbox.WithTitle(title).WithTitleTopLeft().Sprintf("%s\nLast: %s\nPresident x%d", status, last, v.Tally.President)
}

func boardBox(s app.Snapshot) string {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	top := "empty"
	if s.PileTop != nil {
		top = pterm.BgGreen.Sprint(" " + s.PileTop.String() + " ")
	}
	lead := ""
	if s.OpenLead {
		lead = " (open lead)"
	}
	body := pterm.Sprintfln("Pile: %s x%d%s", top, s.PileSize, lead) +
		pterm.Sprintfln("Discarded: %d", s.Discards)
	if s.Current != domain.SeatNone {
		body += pterm.Sprintfln("Turn: %s", s.Seats[s.Current].Name)
	}
	if s.Message != "" {
		body += s.Message
	}
	title := fmt.Sprintf("|ROUND %d/%d|", s.Round, s.RoundsConfigured)
	return pbox.WithTitle(pterm.LightYellow(title)).WithTitleTopCenter().Sprint(body)
}

func handBox(s app.Snapshot) string {
	pbox := pterm.DefaultBox.WithLeftPadding(6).WithRightPadding(6).WithTopPadding(1).WithBottomPadding(1)
	return pbox.WithTitle(s.Seats[domain.SeatUser].Name).WithTitleTopLeft().Sprint(FormatHand(s.Hand, s.Legal))
}

func exchangeBox(s app.Snapshot) string {
	pbox := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2)
	var lines []string
	for _, x := range s.Exchanges {
		if x.From == domain.SeatUser {
			lines = append(lines, fmt.Sprintf("Gave %s to %s", cardList(x.Cards), s.Seats[x.To].Name))
		} else {
			lines = append(lines, fmt.Sprintf("Got %s from %s", cardList(x.Cards), s.Seats[x.From].Name))
		}
	}
	return pbox.WithTitle("Exchange").WithTitleTopLeft().Sprint(strings.Join(lines, "\n"))
}

// FormatHand numbers each card for index input and highlights the playable ones.
func FormatHand(hand, legal []domain.Card) string {
	if len(hand) == 0 {
		return "(no cards)"
	}
	playable := make(map[domain.Card]bool, len(legal))
	for _, c := range legal {
		playable[c] = true
	}
	parts := make([]string, len(hand))
	for i, c := range hand {
		label := fmt.Sprintf("%d:%s", i+1, c.String())
		if playable[c] {
			label = pterm.LightGreen(label)
		}
		parts[i] = label
	}
	return strings.Join(parts, "  ")
}

func cardList(cards []domain.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

// DescribeEvent renders an event as one line. The bool is false for events the human must not see.
func DescribeEvent(ev app.Event, names func(domain.Seat) string) (string, bool) {
	if !ev.VisibleTo(domain.SeatUser) {
		return "", false
	}
	switch p := ev.Payload.(type) {
	case app.RoundStartedPayload:
		return pterm.Sprintfln("Round %d: %s opens with the 3♣", p.Round, pterm.LightCyan(names(p.Opener))), true
	case app.CardsExchangedPayload:
		return pterm.Sprintfln("%s gives %s to %s", names(p.From), cardList(p.Cards), names(p.To)), true
	case app.CardPlayedPayload:
		return pterm.Sprintfln("%s plays %s", pterm.LightCyan(names(p.Seat)), p.Card.String()), true
	case app.TurnPassedPayload:
		return pterm.Sprintfln("%s passes", pterm.LightCyan(names(p.Seat))), true
	case app.PileClearedPayload:
		return pterm.Sprintfln("Pile cleared (%s), %s leads", p.Reason, names(p.Leader)), true
	case app.PlayerFinishedPayload:
		return pterm.Sprintfln("%s is out and becomes %s", pterm.LightGreen(names(p.Seat)), p.Title), true
	case app.RoundEndedPayload:
		return pterm.Sprintfln("Round %d is over", p.Round), true
	case app.MatchEndedPayload:
		return pterm.Sprintfln("Match over after %d rounds", p.Report.GamesPlayed), true
	}
	return "", false
}

// RenderStandings tabulates every seat's title counts for the match.
func RenderStandings(s app.Snapshot) (string, error) {
	data := pterm.TableData{{"Player", "Pres", "VP", "Mid", "VB", "Bum", "Usually"}}
	for _, seat := range domain.Seats {
		v := s.Seats[seat]
		usually := "-"
		if best := v.Tally.Best(); best != domain.TitleNone {
			usually = best.String()
		}
		data = append(data, []string{
			v.Name,
			strconv.Itoa(v.Tally.President),
			strconv.Itoa(v.Tally.VicePresident),
			strconv.Itoa(v.Tally.Middle),
			strconv.Itoa(v.Tally.ViceBum),
			strconv.Itoa(v.Tally.Bum),
			usually,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
}

func RenderLeaderboard(entries []ports.LeaderboardEntry) (string, error) {
	if len(entries) == 0 {
		return pterm.Sprintfln("No results recorded yet."), nil
	}
	data := pterm.TableData{{"#", "Player", "Games", "Pres", "VP", "Mid", "VB", "Bum"}}
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			e.Username,
			strconv.Itoa(e.TotalGames),
			strconv.Itoa(e.Counts.President),
			strconv.Itoa(e.Counts.VicePresident),
			strconv.Itoa(e.Counts.Middle),
			strconv.Itoa(e.Counts.ViceBum),
			strconv.Itoa(e.Counts.Bum),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
}
