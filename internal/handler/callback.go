package handler

import (
	"strconv"
	"strings"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

// CommandKind enumerates every inline button the bot understands.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdNoop
	CmdLang
	CmdMenuProfile
	CmdMenuPosition
	CmdMenuRating
	CmdMenuRules
	CmdMenuEvents
	CmdEventsPage
	CmdEventOpen
	CmdBackToMenu
	CmdCreatePoll
	CmdWizardTopic
	CmdWizardCancel
	CmdWizardPublish
	CmdVoteYes
	CmdVoteNo
	CmdResults
	CmdResultsPage
	CmdCheckin
	CmdCheckinPage
	CmdCheckinPick
	CmdCheckinPeople
	CmdCheckinToggle
	CmdCheckinAll
	CmdCheckinNone
	CmdCheckinDone
)

// Command is a parsed callback payload.
type Command struct {
	Kind   CommandKind
	Lang   string
	PollID string
	Topic  string
	Choice domain.Choice
	UserID int64
	Page   int
}

// ParseCallback decodes raw callback data. Unknown payloads come back as
// CmdUnknown rather than an error; the router answers them silently.
func ParseCallback(data string) Command {
	switch data {
	case "noop":
		return Command{Kind: CmdNoop}
	case "m_profile":
		return Command{Kind: CmdMenuProfile}
	case "m_pos":
		return Command{Kind: CmdMenuPosition}
	case "m_rating":
		return Command{Kind: CmdMenuRating}
	case "m_rules":
		return Command{Kind: CmdMenuRules}
	case "events_pro":
		return Command{Kind: CmdMenuEvents}
	case "evp_back_menu", "res_menu", "ci_back_menu":
		return Command{Kind: CmdBackToMenu}
	case "a_create_rsvp":
		return Command{Kind: CmdCreatePoll}
	case "a_checkin":
		return Command{Kind: CmdCheckin}
	case "w_cancel":
		return Command{Kind: CmdWizardCancel}
	case "w_publish":
		return Command{Kind: CmdWizardPublish}
	}

	switch {
	case strings.HasPrefix(data, "lang_"):
		return Command{Kind: CmdLang, Lang: domain.NormalizeLang(strings.TrimPrefix(data, "lang_"))}
	case strings.HasPrefix(data, "evp_page_"):
		return Command{Kind: CmdEventsPage, Page: atoi(strings.TrimPrefix(data, "evp_page_"))}
	case strings.HasPrefix(data, "evp_open_"):
		return Command{Kind: CmdEventOpen, PollID: strings.TrimPrefix(data, "evp_open_")}
	case strings.HasPrefix(data, "w_topic_"):
		return Command{Kind: CmdWizardTopic, Topic: strings.TrimPrefix(data, "w_topic_")}
	case strings.HasPrefix(data, "rsvp_yes_"):
		return Command{Kind: CmdVoteYes, PollID: strings.TrimPrefix(data, "rsvp_yes_"), Choice: domain.ChoiceYes}
	case strings.HasPrefix(data, "rsvp_no_"):
		return Command{Kind: CmdVoteNo, PollID: strings.TrimPrefix(data, "rsvp_no_"), Choice: domain.ChoiceNo}
	case strings.HasPrefix(data, "rsvp_results_"):
		return Command{Kind: CmdResults, PollID: strings.TrimPrefix(data, "rsvp_results_")}
	case strings.HasPrefix(data, "res_"):
		return parseResultsPage(data)
	case strings.HasPrefix(data, "ci_page_"):
		return Command{Kind: CmdCheckinPage, Page: atoi(strings.TrimPrefix(data, "ci_page_"))}
	case strings.HasPrefix(data, "ci_pick_"):
		return Command{Kind: CmdCheckinPick, PollID: strings.TrimPrefix(data, "ci_pick_")}
	case strings.HasPrefix(data, "ci_people_"):
		return parseTail(CmdCheckinPeople, strings.TrimPrefix(data, "ci_people_"))
	case strings.HasPrefix(data, "ci_t_"):
		return parseToggle(strings.TrimPrefix(data, "ci_t_"))
	case strings.HasPrefix(data, "ci_all_"):
		return parseTail(CmdCheckinAll, strings.TrimPrefix(data, "ci_all_"))
	case strings.HasPrefix(data, "ci_none_"):
		return parseTail(CmdCheckinNone, strings.TrimPrefix(data, "ci_none_"))
	case strings.HasPrefix(data, "ci_done_"):
		return Command{Kind: CmdCheckinDone, PollID: strings.TrimPrefix(data, "ci_done_")}
	}
	return Command{Kind: CmdUnknown}
}

// res_<pollID>_<choice>_<page>
func parseResultsPage(data string) Command {
	rest := strings.TrimPrefix(data, "res_")
	i := strings.LastIndex(rest, "_")
	if i < 0 {
		return Command{Kind: CmdUnknown}
	}
	page := atoi(rest[i+1:])
	rest = rest[:i]

	i = strings.LastIndex(rest, "_")
	if i < 0 {
		return Command{Kind: CmdUnknown}
	}
	choice := domain.Choice(rest[i+1:])
	if choice != domain.ChoiceYes && choice != domain.ChoiceNo {
		return Command{Kind: CmdUnknown}
	}
	return Command{Kind: CmdResultsPage, PollID: rest[:i], Choice: choice, Page: page}
}

// <pollID>_<page>
func parseTail(kind CommandKind, rest string) Command {
	i := strings.LastIndex(rest, "_")
	if i < 0 {
		return Command{Kind: CmdUnknown}
	}
	return Command{Kind: kind, PollID: rest[:i], Page: atoi(rest[i+1:])}
}

// ci_t_<pollID>_<userID>_<page>
func parseToggle(rest string) Command {
	i := strings.LastIndex(rest, "_")
	if i < 0 {
		return Command{Kind: CmdUnknown}
	}
	page := atoi(rest[i+1:])
	rest = rest[:i]

	i = strings.LastIndex(rest, "_")
	if i < 0 {
		return Command{Kind: CmdUnknown}
	}
	userID, err := strconv.ParseInt(rest[i+1:], 10, 64)
	if err != nil {
		return Command{Kind: CmdUnknown}
	}
	return Command{Kind: CmdCheckinToggle, PollID: rest[:i], UserID: userID, Page: page}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
