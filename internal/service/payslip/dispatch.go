package payslip

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/employee"
	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/payroll"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/email"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/jobs"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

var ErrUnknownChannel = errors.New("unknown dispatch channel")

// RecipientResult is one employee's dispatch outcome. WhatsApp is a
// composed share URL, not a server-side send.
type RecipientResult struct {
	EmployeeID   int64   `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Channel      Channel `json:"channel"`
	Sent         bool    `json:"sent"`
	Error        string  `json:"error,omitempty"`
	WhatsAppURL  string  `json:"whatsapp_url,omitempty"`
}

type DispatchResult struct {
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Total      int               `json:"total"`
	Sent       int               `json:"sent"`
	Failed     int               `json:"failed"`
	Errors     []string          `json:"errors,omitempty"`
	Recipients []RecipientResult `json:"recipients"`
}

// Dispatcher bulk-sends secure payslip links for a period over a
// channel, asynchronously through the job registry.
type Dispatcher struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	links        *LinkService
	mailer       email.EmailService
	registry     *jobs.Registry
}

func NewDispatcher(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	links *LinkService,
	mailer email.EmailService,
	registry *jobs.Registry,
) *Dispatcher {
	return &Dispatcher{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		links:        links,
		mailer:       mailer,
		registry:     registry,
	}
}

// Dispatch submits the bulk send as a background job owned by the
// requesting user and returns the job id for polling.
func (d *Dispatcher) Dispatch(year, month int, filter payroll.ListFilter, channel Channel, cc, requester string) (string, error) {
	if channel != ChannelEmail && channel != ChannelWhatsApp {
		return "", ErrUnknownChannel
	}
	filter.Year = year
	filter.Month = month

	jobID := d.registry.Submit(requester, func(ctx context.Context, report jobs.Progress) (interface{}, error) {
		return d.run(ctx, year, month, filter, channel, cc, report)
	})
	return jobID, nil
}

func (d *Dispatcher) run(ctx context.Context, year, month int, filter payroll.ListFilter, channel Channel, cc string, report jobs.Progress) (interface{}, error) {
	records, err := d.payrollRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list payroll records: %w", err)
	}

	result := DispatchResult{Year: year, Month: month, Total: len(records)}
	period := fmt.Sprintf("%02d/%d", month, year)

	for i, rec := range records {
		r := d.sendOne(ctx, rec, period, channel, cc)
		result.Recipients = append(result.Recipients, r)
		if r.Sent {
			result.Sent++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", r.EmployeeName, r.Error))
		}

		done := i + 1
		report(done*100/len(records), "sending",
			fmt.Sprintf("%d sent, %d failed / %d", result.Sent, result.Failed, result.Total))
	}
	return result, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, rec payroll.Record, period string, channel Channel, cc string) RecipientResult {
	r := RecipientResult{EmployeeID: rec.EmployeeID, Channel: channel}

	emp, err := d.employeeRepo.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.EmployeeName = emp.FullName

	token, err := d.links.Issue(emp.ID, rec.Year, rec.Month, emp.NationalID)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	link := d.links.URL(token)

	switch channel {
	case ChannelEmail:
		if emp.Email == "" {
			r.Error = "employee has no email address"
			return r
		}
		if err := d.mailer.SendPayslipLink(emp.Email, cc, emp.FullName, period, link); err != nil {
			r.Error = err.Error()
			return r
		}
	case ChannelWhatsApp:
		if emp.Mobile == "" {
			r.Error = "employee has no mobile number"
			return r
		}
		r.WhatsAppURL = whatsAppShareURL(emp.Mobile, emp.FullName, period, link)
	}

	r.Sent = true
	return r
}

// whatsAppShareURL composes a wa.me link with a prefilled Arabic
// message; the actual send happens on the operator's device.
func whatsAppShareURL(mobile, name, period, link string) string {
	msg := fmt.Sprintf("مرحباً %s، قسيمة راتبك لشهر %s جاهزة:\n%s", name, period, link)
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, mobile)
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(msg))
}
