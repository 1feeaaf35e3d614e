package mentorship

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/user"
)

var (
	ErrNotFound      = errors.New("mentorship request not found")
	ErrNotAnAlumni   = errors.New("mentor must be an alumni")
	ErrAlreadyClosed = errors.New("request has already been responded to")
)

type (
	Repository interface {
		CreateRequest(ctx context.Context, r Request) (Request, error)
		GetRequestByID(ctx context.Context, id string) (Request, error)
		QueryRequests(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Request, error)
		UpdateRequestStatus(ctx context.Context, id, status string) (Request, error)
		DeleteRequestsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo    Repository
		userSvc user.ServiceInterface
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, userSvc user.ServiceInterface, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, userSvc: userSvc, mailSvc: mailSvc}
}

// Request files a mentorship request from a student to an alumni and
// notifies the alumni by email.
func (svc *Service) Request(ctx context.Context, nr NewRequest, studentID string) (Request, error) {
	mentor, err := svc.userSvc.GetByID(ctx, nr.AlumniID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Request{}, ErrNotAnAlumni
		}
		return Request{}, errors.Wrap(err, "finding mentor")
	}
	if !mentor.IsAlumni() {
		return Request{}, ErrNotAnAlumni
	}

	now := time.Now().UTC()
	req, err := svc.repo.CreateRequest(ctx, Request{
		StudentID: studentID,
		AlumniID:  nr.AlumniID,
		Topic:     nr.Topic,
		Message:   nr.Message,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Request{}, errors.Wrap(err, "creating request")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: mentor.Name, Address: mentor.Email}},
		Subject:      "New Mentorship Request",
		TemplateName: "mentorship-request",
		TemplateData: req,
	})
	return req, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Request, error) {
	return svc.repo.GetRequestByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Request, error) {
	return svc.repo.QueryRequests(ctx, filter, ordering)
}

// QueryForStudent lists the requests a student filed.
func (svc *Service) QueryForStudent(ctx context.Context, studentID string) ([]Request, error) {
	return svc.repo.QueryRequests(ctx, &QueryFilter{StudentID: studentID}, nil)
}

// QueryForAlumni lists the requests addressed to an alumni.
func (svc *Service) QueryForAlumni(ctx context.Context, alumniID string) ([]Request, error) {
	return svc.repo.QueryRequests(ctx, &QueryFilter{AlumniID: alumniID}, nil)
}

// Respond records the alumni's verdict; only the addressed alumni may
// respond, and only once.
func (svc *Service) Respond(ctx context.Context, id, alumniID string, resp Response) (Request, error) {
	req, err := svc.repo.GetRequestByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req.AlumniID != alumniID {
		return Request{}, ErrNotFound
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyClosed
	}
	return svc.repo.UpdateRequestStatus(ctx, id, resp.Status)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteRequestsByID(ctx, ids...)
}
