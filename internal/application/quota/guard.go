package quota

import (
	"fmt"
	"strconv"
	"time"

	"tailorcv/internal/shared/biztime"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
)

// DailyCount tracks free-tier calls for one UTC business date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ProUsage tracks calls made under one pro session. It is only honored
// while Exp is in the future and SID matches the presented token.
type ProUsage struct {
	SID   string `json:"sid"`
	Exp   int64  `json:"exp"`
	Count int    `json:"count"`
}

// ProToken is the guard's view of a verified, currently active pro token.
type ProToken struct {
	SID       string
	ExpiresAt time.Time
}

// Outcome classifies how a guarded request ended, which determines whether
// the counter advances.
type Outcome int

const (
	// OutcomeSuccess consumed quota.
	OutcomeSuccess Outcome = iota
	// OutcomeUpstreamFailure consumed quota; the model call happened.
	OutcomeUpstreamFailure
	// OutcomeRejected did not consume quota; the request never reached
	// the model.
	OutcomeRejected
)

func (o Outcome) consumes() bool {
	return o == OutcomeSuccess || o == OutcomeUpstreamFailure
}

// CookieUpdate is one Set-Cookie the caller must emit after Commit.
type CookieUpdate struct {
	Name   string
	Value  string
	MaxAge int
}

// Guard decides whether a tailoring request may proceed and how counters
// change afterwards.
type Guard struct {
	codec      *CookieCodec
	dailyLimit int
	proLimit   int
	now        func() time.Time
	logger     logger.Interface
}

func NewGuard(codec *CookieCodec, dailyLimit, proLimit int, log logger.Interface) *Guard {
	return &Guard{
		codec:      codec,
		dailyLimit: dailyLimit,
		proLimit:   proLimit,
		now:        biztime.NowUTC,
		logger:     log,
	}
}

// NewGuardWithClock injects the clock for daily-reset tests.
func NewGuardWithClock(codec *CookieCodec, dailyLimit, proLimit int, log logger.Interface, now func() time.Time) *Guard {
	g := NewGuard(codec, dailyLimit, proLimit, log)
	g.now = now
	return g
}

// Decision is the outcome of one quota check. The counter it carries has
// already been advanced in memory; Commit decides whether that advance is
// written back to the client.
type Decision struct {
	guard *Guard

	// Pro reports which counter applied.
	Pro bool
	// Remaining is the allowance left after this request, assuming it
	// consumes quota.
	Remaining int
	// Warning is set when the caller is about to exhaust their limit.
	Warning string

	daily DailyCount
	pro   ProUsage
}

// Check evaluates the request against the relevant counter. pro is nil for
// free-tier requests. It returns a rate-limit error, with headers for the
// current standing, when the limit is already exhausted.
func (g *Guard) Check(pro *ProToken, dailyCookie, proCookie string) (*Decision, error) {
	now := g.now()

	if pro != nil {
		return g.checkPro(pro, proCookie, now)
	}
	return g.checkDaily(dailyCookie, now)
}

func (g *Guard) checkDaily(dailyCookie string, now time.Time) (*Decision, error) {
	today := biztime.DayKey(now)

	var daily DailyCount
	if dailyCookie != "" {
		if err := g.codec.Decode(dailyCookie, &daily); err != nil {
			g.logger.Debugw("resetting unreadable daily quota cookie")
			daily = DailyCount{}
		}
	}
	if daily.Date != today {
		daily = DailyCount{Date: today}
	}

	if daily.Count >= g.dailyLimit {
		return nil, apperrors.NewRateLimitError(
			fmt.Sprintf("Daily limit of %d free tailorings reached. Come back tomorrow or go pro.", g.dailyLimit))
	}

	d := &Decision{
		guard:     g,
		daily:     DailyCount{Date: today, Count: daily.Count + 1},
		Remaining: g.dailyLimit - daily.Count - 1,
	}
	if d.Remaining == 0 {
		d.Warning = "This is your last free tailoring for today."
	}
	return d, nil
}

func (g *Guard) checkPro(pro *ProToken, proCookie string, now time.Time) (*Decision, error) {
	var usage ProUsage
	if proCookie != "" {
		if err := g.codec.Decode(proCookie, &usage); err != nil {
			g.logger.Debugw("resetting unreadable pro quota cookie")
			usage = ProUsage{}
		}
	}
	// A counter from a different session, or one that outlived its
	// window, starts fresh.
	if usage.SID != pro.SID || now.After(time.Unix(usage.Exp, 0)) {
		usage = ProUsage{SID: pro.SID, Exp: pro.ExpiresAt.Unix()}
	}

	if usage.Count >= g.proLimit {
		return nil, apperrors.NewRateLimitError(
			fmt.Sprintf("Pro session limit of %d tailorings reached.", g.proLimit))
	}

	d := &Decision{
		guard:     g,
		Pro:       true,
		pro:       ProUsage{SID: usage.SID, Exp: usage.Exp, Count: usage.Count + 1},
		Remaining: g.proLimit - usage.Count - 1,
	}
	if d.Remaining == 1 {
		d.Warning = "Almost at your pro session limit."
	}
	return d, nil
}

// Commit returns the cookie writes for the given outcome. Outcomes that
// never consumed quota write nothing, leaving the counters untouched.
func (d *Decision) Commit(outcome Outcome) ([]CookieUpdate, error) {
	if !outcome.consumes() {
		return nil, nil
	}

	if d.Pro {
		value, err := d.guard.codec.Encode(d.pro)
		if err != nil {
			return nil, err
		}
		maxAge := int(time.Until(time.Unix(d.pro.Exp, 0)) / time.Second)
		if maxAge < 0 {
			maxAge = 0
		}
		return []CookieUpdate{{Name: ProCookieName, Value: value, MaxAge: maxAge}}, nil
	}

	value, err := d.guard.codec.Encode(d.daily)
	if err != nil {
		return nil, err
	}
	return []CookieUpdate{{Name: DailyCookieName, Value: value, MaxAge: int(24 * time.Hour / time.Second)}}, nil
}

// Headers renders the quota response headers for this decision.
func (d *Decision) Headers() map[string]string {
	headers := map[string]string{}
	if d.Pro {
		headers["X-Pro-Tailor-Remaining"] = strconv.Itoa(d.Remaining)
		headers["X-Pro-Tailor-Limit"] = strconv.Itoa(d.guard.proLimit)
	} else {
		headers["X-Tailor-Remaining"] = strconv.Itoa(d.Remaining)
	}
	if d.Warning != "" {
		headers["X-Tailor-Warning"] = d.Warning
	}
	return headers
}
