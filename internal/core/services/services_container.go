package services

import (
	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Member = NewMemberService(repos.MemberRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.LedgerRepo)
	container.User = NewUserService(repos.UserRepo)

	// The ledger-facing services share the same repositories so that every
	// write runs through the same period-locking discipline.
	container.Recorder = NewRecorderService(repos.MemberRepo, repos.CategoryRepo, repos.PeriodRepo, repos.LedgerRepo)
	container.Balance = NewBalanceService(repos.MemberRepo, repos.PeriodRepo, repos.LedgerRepo)
	container.Settlement = NewSettlementService(repos.MemberRepo, repos.PeriodRepo, repos.LedgerRepo)

	return container
}
