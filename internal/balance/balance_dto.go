package balance

import "github.com/shopspring/decimal"

type CreditRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Year   int    `json:"year" binding:"omitempty,gte=1900,lte=9999"`
}

type RolloverRequest struct {
	Year int `json:"year" binding:"omitempty,gte=1900,lte=9999"`
}

type BucketResponse struct {
	Total     decimal.Decimal `json:"total"`
	Carried   decimal.Decimal `json:"carried"`
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
}

type BalanceResponse struct {
	UserID uint64         `json:"user_id"`
	Year   int            `json:"year"`
	Casual BucketResponse `json:"casual"`
	RH     BucketResponse `json:"rh"`
	Earned BucketResponse `json:"earned"`
}

type RolloverResult struct {
	Year     int `json:"year"`
	Credited int `json:"credited"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

func bucket(total int, carried, used decimal.Decimal) BucketResponse {
	t := decimal.NewFromInt(int64(total))
	return BucketResponse{
		Total:     t,
		Carried:   carried,
		Used:      used,
		Remaining: t.Add(carried).Sub(used),
	}
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		UserID: b.UserID,
		Year:   b.AcademicYear,
		Casual: bucket(b.CasualTotal, decimal.Zero, b.CasualUsed),
		RH:     bucket(b.RHTotal, decimal.Zero, b.RHUsed),
		Earned: bucket(b.EarnedTotal, b.EarnedCarried, b.EarnedUsed),
	}
}
