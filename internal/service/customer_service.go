package service

import (
	"context"
	"strings"

	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/repository"
)

type CustomerService struct {
	Repo *repository.CustomerRepository
}

func NewCustomerService(repo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{Repo: repo}
}

func (s *CustomerService) ListCustomers(ctx context.Context) (*entities.CustomerList, error) {
	customers, err := s.Repo.ListCustomers(ctx)
	if err != nil {
		return nil, storageError("list customers", err)
	}
	list := &entities.CustomerList{Customers: []entities.CustomerResponse{}}
	for _, c := range customers {
		list.Customers = append(list.Customers, entities.CustomerResponse{
			ID:    c.ID,
			Name:  c.Name,
			Email: c.Email,
			Phone: c.Phone,
		})
	}
	list.Count = len(list.Customers)
	return list, nil
}

// UpdateCustomer changes the customer's contact details. The email is the
// identity key and stays immutable.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, req *entities.UpdateCustomerRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.Validation("customer name is required")
	}
	rows, err := s.Repo.UpdateCustomer(ctx, id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		return storageError("update customer", err)
	}
	if rows == 0 {
		return apperrors.NotFound("customer not found")
	}
	return nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	rows, err := s.Repo.DeleteCustomer(ctx, id)
	if err != nil {
		return storageError("delete customer", err)
	}
	if rows == 0 {
		return apperrors.NotFound("customer not found")
	}
	return nil
}
