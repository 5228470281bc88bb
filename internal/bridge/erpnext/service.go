package erpnext

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/jobs"
	"github.com/nuzum-sa/nuzum-backend-go/internal/service/invoice"
)

// DraftValidator runs the local double-entry preflight on an assembled
// invoice draft before it is posted remotely.
type DraftValidator func(ctx context.Context, d invoice.Draft) error

// Service orchestrates contract invoicing against the remote ERP:
// assemble locally, validate, then post. Long submissions run through
// the job registry.
type Service struct {
	mu        sync.RWMutex
	client    *Client
	contracts contract.ContractRepository
	assembler *invoice.Assembler
	registry  *jobs.Registry
	validate  DraftValidator
}

func NewService(client *Client, contracts contract.ContractRepository, assembler *invoice.Assembler, registry *jobs.Registry, validate DraftValidator) *Service {
	return &Service{
		client:    client,
		contracts: contracts,
		assembler: assembler,
		registry:  registry,
		validate:  validate,
	}
}

func (s *Service) Client() *Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// SetClient swaps the remote client after a settings change. In-flight
// jobs keep the client they started with.
func (s *Service) SetClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = c
}

// activeClient fails fast when the bridge has never been configured.
func (s *Service) activeClient() (*Client, error) {
	c := s.Client()
	if c == nil {
		return nil, ErrNotConfigured
	}
	return c, nil
}

// SyncContractCustomer projects the contract's client into the remote
// Customer doctype and returns the remote id.
func (s *Service) SyncContractCustomer(ctx context.Context, contractID int64) (string, error) {
	c, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return "", err
	}
	client, err := s.activeClient()
	if err != nil {
		return "", err
	}
	attrs := map[string]any{}
	if c.VATNumber != nil && *c.VATNumber != "" {
		attrs["tax_id"] = *c.VATNumber
	}
	return client.EnsureCustomer(ctx, c.ClientName, attrs)
}

// PreviewContractInvoice assembles the draft without touching the
// remote ERP, so the lines can be reviewed before submission.
func (s *Service) PreviewContractInvoice(ctx context.Context, contractID int64, month, year int, manualOTHours decimal.Decimal) (invoice.Draft, error) {
	return s.assembler.BuildContractInvoice(ctx, contractID, month, year, manualOTHours)
}

// SubmitInvoiceInput are the knobs of an asynchronous invoice run.
type SubmitInvoiceInput struct {
	ContractID    int64
	Year          int
	Month         int
	ManualOTHours decimal.Decimal
	DiscountPct   decimal.Decimal
	PaymentTerms  string
	CostCenter    string
}

// SubmitContractInvoice assembles, validates and posts the invoice on a
// background job owned by the requester. The job id is returned for
// polling; the job result is an InvoiceResult.
func (s *Service) SubmitContractInvoice(in SubmitInvoiceInput, requester string) string {
	return s.registry.Submit(requester, func(ctx context.Context, report jobs.Progress) (interface{}, error) {
		client, err := s.activeClient()
		if err != nil {
			return nil, err
		}

		report(10, "assemble", "building invoice lines")
		c, err := s.contracts.GetByID(ctx, in.ContractID)
		if err != nil {
			return nil, err
		}
		draft, err := s.assembler.BuildContractInvoice(ctx, in.ContractID, in.Month, in.Year, in.ManualOTHours)
		if err != nil {
			return nil, err
		}

		if s.validate != nil {
			report(30, "validate", "checking double-entry invariants")
			if err := s.validate(ctx, draft); err != nil {
				return nil, err
			}
		}

		report(60, "post", "posting to ERP")
		result, err := client.CreateSalesInvoice(ctx, InvoiceInput{
			CustomerName:     c.ClientName,
			Draft:            draft,
			DiscountPct:      in.DiscountPct,
			PaymentTermsName: in.PaymentTerms,
			CostCenterCode:   in.CostCenter,
			Remarks:          fmt.Sprintf("فاتورة توريد عمالة %02d/%d - %s", in.Month, in.Year, c.ClientName),
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}
