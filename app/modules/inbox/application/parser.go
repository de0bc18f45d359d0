package inboxservice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Message is one fetched inbox message, reduced to what parsing needs.
type Message struct {
	ID      string
	Subject string
	Body    string
}

// Candidate is a round proposal extracted from a confirmation message.
type Candidate struct {
	Course  string
	Date    time.Time
	Golfers int
}

// ErrNotConfirmation indicates the message is not a tee-time confirmation.
var ErrNotConfirmation = errors.New("message is not a tee-time confirmation")

// ErrUnparsable indicates the message looked like a confirmation but the
// course, date or time could not be extracted.
var ErrUnparsable = errors.New("could not extract round details from message")

// Precompiled extraction patterns. Booking confirmations follow a loose
// template:
//
//	Breakfast Hill Golf Club
//	Monday, November 3, 2025
//	11:09 am
//	4 Player(s)
var (
	courseRegex  = regexp.MustCompile(`(?i)([A-Za-z\s]+Golf Club)`)
	dateRegex    = regexp.MustCompile(`(?i)([A-Za-z]+,\s+[A-Za-z]+\s+\d{1,2},\s+\d{4})`)
	timeRegex    = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*[ap]m)`)
	playersRegex = regexp.MustCompile(`(?i)(\d+)\s*Player`)
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "3:04pm"
)

// Parser extracts round candidates from tee-time confirmation messages.
type Parser struct {
	w *when.Parser
}

// NewParser creates a Parser with a natural-language date fallback for
// bodies that don't match the expected date layout.
func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// IsConfirmation reports whether a subject line looks like a tee-time
// confirmation worth parsing.
func IsConfirmation(subject string) bool {
	return strings.Contains(strings.ToLower(subject), "tee time confirmation")
}

// Parse extracts a Candidate from a confirmation message. ref anchors the
// natural-language date fallback. Messages whose subject does not contain
// "CONFIRMED" are rejected with ErrNotConfirmation; missing course, date or
// time yields ErrUnparsable.
func (p *Parser) Parse(msg Message, ref time.Time) (*Candidate, error) {
	if !strings.Contains(strings.ToUpper(msg.Subject), "CONFIRMED") {
		return nil, ErrNotConfirmation
	}

	courseMatch := courseRegex.FindStringSubmatch(msg.Body)
	if courseMatch == nil {
		return nil, fmt.Errorf("%w: no course name", ErrUnparsable)
	}
	course := strings.TrimSpace(courseMatch[1])

	date, err := p.parseDate(msg.Body, ref)
	if err != nil {
		return nil, err
	}

	teeTime, err := parseTeeTime(msg.Body)
	if err != nil {
		return nil, err
	}

	golfers := 0
	if m := playersRegex.FindStringSubmatch(msg.Body); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			golfers = n
		}
	}

	return &Candidate{
		Course: course,
		Date: time.Date(date.Year(), date.Month(), date.Day(),
			teeTime.Hour(), teeTime.Minute(), 0, 0, time.UTC),
		Golfers: golfers,
	}, nil
}

// parseDate tries the exact confirmation layout first, then falls back to
// natural-language parsing anchored at ref.
func (p *Parser) parseDate(body string, ref time.Time) (time.Time, error) {
	if m := dateRegex.FindStringSubmatch(body); m != nil {
		if d, err := time.Parse(dateLayout, m[1]); err == nil {
			return d, nil
		}
		if r, err := p.w.Parse(m[1], ref); err == nil && r != nil {
			return r.Time, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: no date", ErrUnparsable)
}

func parseTeeTime(body string) (time.Time, error) {
	m := timeRegex.FindStringSubmatch(body)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: no tee time", ErrUnparsable)
	}
	// "11:09 am" -> "11:09am"
	normalized := strings.ToLower(strings.Join(strings.Fields(m[1]), ""))
	t, err := time.Parse(timeLayout, normalized)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad tee time %q", ErrUnparsable, m[1])
	}
	return t, nil
}
