package accounting

import (
	"fmt"
	"sort"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
)

// SplitEvenly divides an amount in minor units equally across n participants
// using floor division. The leftover remainder is 0 or more minor units and
// always strictly less than n.
func SplitEvenly(amount int64, n int) (share int64, remainder int64) {
	if n <= 0 {
		return 0, amount
	}
	share = amount / int64(n)
	remainder = amount - share*int64(n)
	return share, remainder
}

// PickRemainderMember selects which active member absorbs the indivisible
// remainder of a split. Members must be ordered by roster sequence. It scans
// for the first member whose rotation flag is still false; when every flag is
// true the cycle restarts and the first member is picked again.
// The second return value reports whether all flags must be reset before the
// chosen member's flag is set. An empty roster returns index -1.
func PickRemainderMember(members []domain.Member) (index int, resetCycle bool) {
	if len(members) == 0 {
		return -1, false
	}
	for i, m := range members {
		if !m.PaidRemainderInCycle {
			return i, false
		}
	}
	return 0, true
}

// ApplyFundOffset computes how much of a shared expense the public fund
// absorbs: min(amount, fundBalance), never driving the fund negative.
func ApplyFundOffset(amount, fundBalance int64) int64 {
	if fundBalance <= 0 {
		return 0
	}
	if amount < fundBalance {
		return amount
	}
	return fundBalance
}

// ValidateBatchBalance checks that a batch's entries form a valid double-entry
// event: at least two entries, every amount strictly positive, and the debit
// and credit sums equal.
func ValidateBatchBalance(entries []domain.LedgerEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("batch must have at least two entries")
	}

	var debits, credits int64
	for _, e := range entries {
		if e.Amount <= 0 {
			return fmt.Errorf("entry amount must be positive, got %d", e.Amount)
		}
		switch e.Direction {
		case domain.Debit:
			debits += e.Amount
		case domain.Credit:
			credits += e.Amount
		default:
			return fmt.Errorf("unknown entry direction %q", e.Direction)
		}
	}

	if debits != credits {
		return fmt.Errorf("batch entries do not balance: debits sum is %d, credits sum is %d", debits, credits)
	}
	return nil
}

// NetBalances computes the greedy minimal-transfer plan that zeroes a set of
// member balances. It repeatedly matches the largest debtor against the
// largest creditor and transfers min(|debt|, credit), which yields at most
// len(balances)-1 transfers. Balances within the tolerance of zero are
// skipped. The input is not modified; members with zero balance produce no
// transfer.
func NetBalances(balances []domain.MemberBalance, tolerance int64) []domain.Transfer {
	type party struct {
		memberID string
		name     string
		amount   int64 // always positive magnitude
	}

	var debtors, creditors []party
	for _, b := range balances {
		switch {
		case b.Balance < -tolerance:
			debtors = append(debtors, party{b.MemberID, b.Name, -b.Balance})
		case b.Balance > tolerance:
			creditors = append(creditors, party{b.MemberID, b.Name, b.Balance})
		}
	}

	// Largest magnitude first for both sides; ties break on member ID so the
	// plan is deterministic.
	byMagnitude := func(parties []party) func(a, b int) bool {
		return func(a, b int) bool {
			if parties[a].amount != parties[b].amount {
				return parties[a].amount > parties[b].amount
			}
			return parties[a].memberID < parties[b].memberID
		}
	}
	sort.Slice(debtors, byMagnitude(debtors))
	sort.Slice(creditors, byMagnitude(creditors))

	transfers := []domain.Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]
		amount := d.amount
		if c.amount < amount {
			amount = c.amount
		}

		transfers = append(transfers, domain.Transfer{
			FromMemberID: d.memberID,
			FromName:     d.name,
			ToMemberID:   c.memberID,
			ToName:       c.name,
			Amount:       amount,
		})

		d.amount -= amount
		c.amount -= amount
		if d.amount <= tolerance {
			i++
		}
		if c.amount <= tolerance {
			j++
		}
	}

	return transfers
}

// ResidualBalances returns the balances still outside the tolerance after the
// given transfers are applied. Member balances only net to zero through
// pairwise transfers when they sum to zero; deposits make one side outweigh
// the other, and the surplus side survives the matching. Those survivors must
// be settled against the outside world: a positive residual is paid out of
// the group to the member, a negative one is collected from them. Ordered by
// magnitude descending, ties on member ID.
func ResidualBalances(balances []domain.MemberBalance, transfers []domain.Transfer, tolerance int64) []domain.MemberBalance {
	remaining := make(map[string]int64, len(balances))
	for _, b := range balances {
		remaining[b.MemberID] = b.Balance
	}
	for _, t := range transfers {
		remaining[t.FromMemberID] += t.Amount
		remaining[t.ToMemberID] -= t.Amount
	}

	residuals := []domain.MemberBalance{}
	for _, b := range balances {
		r := remaining[b.MemberID]
		if r > tolerance || r < -tolerance {
			residuals = append(residuals, domain.MemberBalance{
				MemberID: b.MemberID,
				Name:     b.Name,
				IsActive: b.IsActive,
				Balance:  r,
			})
		}
	}

	sort.Slice(residuals, func(a, b int) bool {
		ma, mb := residuals[a].Balance, residuals[b].Balance
		if ma < 0 {
			ma = -ma
		}
		if mb < 0 {
			mb = -mb
		}
		if ma != mb {
			return ma > mb
		}
		return residuals[a].MemberID < residuals[b].MemberID
	})
	return residuals
}
