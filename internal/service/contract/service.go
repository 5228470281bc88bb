package contract

import (
	"context"
	"errors"
	"time"

	"github.com/nuzum-sa/nuzum-backend-go/internal/domain/contract"
)

type ServiceImpl struct {
	repo contract.ContractRepository
}

func NewContractService(repo contract.ContractRepository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	if c.Status == "" {
		c.Status = contract.StatusDraft
	}
	if err := s.checkActiveOverlap(ctx, c); err != nil {
		return contract.Contract{}, err
	}
	return s.repo.Create(ctx, c)
}

func (s *ServiceImpl) Update(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	if err := s.checkActiveOverlap(ctx, c); err != nil {
		return contract.Contract{}, err
	}
	return s.repo.Update(ctx, c)
}

// checkActiveOverlap enforces "at most one active contract per
// department at any date".
func (s *ServiceImpl) checkActiveOverlap(ctx context.Context, c contract.Contract) error {
	if c.Status != contract.StatusActive {
		return nil
	}
	probe := c.StartDate
	if probe.Before(time.Now()) {
		probe = time.Now()
	}
	existing, err := s.repo.ActiveForDepartment(ctx, c.DepartmentID, probe)
	if err != nil {
		if errors.Is(err, contract.ErrNoActiveContract) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return contract.ErrActiveContractOverlap
	}
	return nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int64) (contract.Contract, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context) ([]contract.Contract, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) ActiveForDepartment(ctx context.Context, departmentID int64, date time.Time) (contract.Contract, error) {
	return s.repo.ActiveForDepartment(ctx, departmentID, date)
}

func (s *ServiceImpl) AddResource(ctx context.Context, r contract.Resource) (contract.Resource, error) {
	if r.BillingRate.IsNegative() {
		return contract.Resource{}, contract.ErrNegativeBillingRate
	}
	if r.BillingType == "" {
		r.BillingType = contract.BillingMonthly
	}
	return s.repo.CreateResource(ctx, r)
}

func (s *ServiceImpl) UpdateResource(ctx context.Context, r contract.Resource) (contract.Resource, error) {
	if r.BillingRate.IsNegative() {
		return contract.Resource{}, contract.ErrNegativeBillingRate
	}
	return s.repo.UpdateResource(ctx, r)
}

func (s *ServiceImpl) ResourcesInEffect(ctx context.Context, contractID int64, monthStart, monthEnd time.Time) ([]contract.Resource, error) {
	return s.repo.ResourcesInEffect(ctx, contractID, monthStart, monthEnd)
}
