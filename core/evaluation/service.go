package evaluation

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/mail"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/question"
)

// LowScoreThreshold triggers an alert email when a submitted score falls
// strictly below it and an alert address is configured.
const LowScoreThreshold = 0.5

var (
	// errors
	ErrNotFound  = errors.New("evaluation not found")
	ErrDuplicate = errors.New("this teammate has already been evaluated today")
	ErrNoPrimary = errors.New("no primary store configured")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateEvaluation(ev Evaluation) (Evaluation, error)
		QueryAllEvaluations() ([]Evaluation, error)
		GetEvaluationByID(id string) (Evaluation, error)
		// FilterEvaluations applies AND operation on available QueryFilter fields.
		FilterEvaluations(filter QueryFilter) ([]Evaluation, error)
		UpdateEvaluationStatus(id, status string) (Evaluation, error)
		DeleteEvaluationsByID(ids ...string) error
	}

	// Service submits and queries daily evaluations.
	//
	// Writes go to two stores: `primary` (postgres) and `local` (the
	// JSON-backed spool). The local write happens regardless of the primary
	// outcome; a primary failure degrades the evaluation to "queued" instead
	// of failing the submission. The two stores can diverge until SyncQueued
	// runs; that is accepted, offline-tolerant behavior, not a bug.
	Service struct {
		conf        *core.Config
		primary     Repository // nil in offline mode
		local       Repository
		questionSvc *question.Service
		mailSvc     core.EmailService
		log         core.Logger
	}
)

func NewService(
	conf *core.Config,
	primary, local Repository,
	questionSvc *question.Service,
	mailSvc core.EmailService,
	log core.Logger,
) *Service {
	return &Service{
		conf:        conf,
		primary:     primary,
		local:       local,
		questionSvc: questionSvc,
		mailSvc:     mailSvc,
		log:         log,
	}
}

// DateRef returns today's dateRef: the calendar day in the configured
// (evaluator's) time zone, formatted YYYY-MM-DD.
func (svc *Service) DateRef() string {
	return nowFunc().In(svc.conf.Location()).Format("2006-01-02")
}

// Submit validates, scores and persists a new evaluation by `evaluator`.
//
// The duplicate check is a read-then-write without a transaction; two
// near-simultaneous submissions can both pass it. The unique index on the
// primary store catches that case, the local spool accepts the race.
func (svc *Service) Submit(evaluator string, ne NewEvaluation) (Evaluation, error) {
	catalog, err := svc.questionSvc.Catalog()
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "loading question catalog")
	}

	dateRef := svc.DateRef()
	if err = svc.checkDuplicate(evaluator, ne.Evaluated, dateRef); err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{
		ID:        uuid.New().String(),
		CreatedAt: nowFunc().UTC(),
		DateRef:   dateRef,
		Evaluator: evaluator,
		Evaluated: ne.Evaluated,
		RouteID:   ne.RouteID,
		Answers:   ne.Answers,
		Score:     CalcScore(ne.Answers, catalog),
		Status:    StatusSynced,
	}

	var primaryErr error
	if svc.primary != nil {
		if _, primaryErr = svc.primary.CreateEvaluation(ev); primaryErr != nil {
			svc.log.Warn("primary evaluation write failed; queueing locally", primaryErr)
		}
	} else {
		primaryErr = ErrNoPrimary
	}
	if primaryErr != nil {
		ev.Status = StatusQueued
	}

	// best-effort local write, regardless of the primary outcome
	if _, localErr := svc.local.CreateEvaluation(ev); localErr != nil {
		if primaryErr != nil && primaryErr != ErrNoPrimary {
			return Evaluation{}, errors.Wrap(primaryErr, "saving evaluation")
		}
		if svc.primary == nil {
			return Evaluation{}, errors.Wrap(localErr, "saving evaluation")
		}
		svc.log.Warn("local evaluation write failed", localErr)
	}

	svc.alertOnLowScore(ev)
	return ev, nil
}

func (svc *Service) checkDuplicate(evaluator, evaluated, dateRef string) error {
	filter := QueryFilter{DateFrom: dateRef, DateTo: dateRef, Evaluator: evaluator, Evaluated: evaluated}

	if svc.primary != nil {
		if existing, err := svc.primary.FilterEvaluations(filter); err == nil && len(existing) > 0 {
			return core.NewValidationError(ErrDuplicate)
		}
	}
	existing, err := svc.local.FilterEvaluations(filter)
	if err != nil {
		return errors.Wrap(err, "checking for duplicate evaluation")
	}
	if len(existing) > 0 {
		return core.NewValidationError(ErrDuplicate)
	}
	return nil
}

func (svc *Service) alertOnLowScore(ev Evaluation) {
	if svc.conf.AlertEmail == "" || ev.Score >= LowScoreThreshold {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: svc.conf.AlertEmail}},
		Subject: fmt.Sprintf("Low checklist score: %s (%.2f)", ev.Evaluated, ev.Score),
		BodyStr: fmt.Sprintf(
			"%s scored %.2f on the daily checklist of %s (evaluated by %s).",
			ev.Evaluated, ev.Score, ev.DateRef, ev.Evaluator,
		),
	})
}

// GetByID looks the evaluation up in the primary store first, then in the
// local spool.
func (svc *Service) GetByID(id string) (Evaluation, error) {
	if svc.primary != nil {
		if ev, err := svc.primary.GetEvaluationByID(id); err == nil {
			return ev, nil
		} else if errors.Cause(err) != ErrNotFound {
			return Evaluation{}, err
		}
	}
	return svc.local.GetEvaluationByID(id)
}

// Filter queries the primary store, falling back to the local spool when no
// primary is configured.
func (svc *Service) Filter(filter QueryFilter) ([]Evaluation, error) {
	if svc.primary != nil {
		return svc.primary.FilterEvaluations(filter)
	}
	return svc.local.FilterEvaluations(filter)
}

// SyncQueued pushes evaluations spooled as "queued" to the primary store and
// flips them to "synced". It reports how many were pushed.
func (svc *Service) SyncQueued() (int, error) {
	if svc.primary == nil {
		return 0, ErrNoPrimary
	}

	queued, err := svc.local.FilterEvaluations(QueryFilter{Status: StatusQueued})
	if err != nil {
		return 0, errors.Wrap(err, "listing queued evaluations")
	}

	var synced int
	for _, ev := range queued {
		ev.Status = StatusSynced
		if _, err = svc.primary.CreateEvaluation(ev); err != nil {
			// already pushed by an earlier partial sync
			if errors.Cause(err) != ErrDuplicate {
				return synced, errors.Wrapf(err, "syncing evaluation %s", ev.ID)
			}
		}
		if _, err = svc.local.UpdateEvaluationStatus(ev.ID, StatusSynced); err != nil {
			return synced, errors.Wrapf(err, "marking evaluation %s synced", ev.ID)
		}
		synced++
	}
	return synced, nil
}

// ExportCSV writes the filtered evaluations as CSV: one row per evaluation,
// scores with two decimals.
func (svc *Service) ExportCSV(w io.Writer, filter QueryFilter) error {
	evs, err := svc.Filter(filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err = cw.Write([]string{"id", "date_ref", "evaluator", "evaluated", "score", "status", "created_at"}); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, ev := range evs {
		row := []string{
			ev.ID,
			ev.DateRef,
			ev.Evaluator,
			ev.Evaluated,
			strconv.FormatFloat(ev.Score, 'f', 2, 64),
			ev.Status,
			ev.CreatedAt.Format(time.RFC3339),
		}
		if err = cw.Write(row); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}
