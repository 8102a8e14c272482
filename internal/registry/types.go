// Package registry parses Korean real-estate registry documents (등기부등본)
// out of PDF primitives: title section (표제부), ownership section (갑구),
// encumbrance section (을구), trade lists and the reference summary, with
// red-ink cancellation detection and cancellation relationship mapping.
package registry

// FloorArea is one floor's area from the building description.
type FloorArea struct {
	Floor      string
	Area       float64
	IsExcluded bool
}

// OwnerInfo is a right holder on an ownership entry. Role distinguishes
// 소유자, 공유자, 가등기권자 and 수탁자 when role tagging is enabled.
type OwnerInfo struct {
	Name           string
	ResidentNumber *string
	Address        *string
	Share          *string
	Role           *string
}

// CreditorInfo is a creditor or right holder (채권자, 근저당권자, ...).
type CreditorInfo struct {
	Name           string
	ResidentNumber *string
	Address        *string
}

// LesseeInfo is a lessee (임차권자).
type LesseeInfo struct {
	Name           string
	ResidentNumber *string
	Address        *string
}

// LeaseTermInfo carries the dated milestones of a registered lease.
type LeaseTermInfo struct {
	ContractDate             *string
	ResidentRegistrationDate *string
	PossessionStartDate      *string
	FixedDate                *string
}

// LandTitleEntry is one row of 표제부 (토지의 표시).
type LandTitleEntry struct {
	DisplayNumber string
	ReceiptDate   string
	Location      string
	LandType      string
	Area          string
	CauseAndOther string
	IsCancelled   bool
}

// BuildingTitleEntry is one row of 표제부 (건물의 표시).
type BuildingTitleEntry struct {
	DisplayNumber    string
	ReceiptDate      string
	LocationOrNumber string
	BuildingDetail   string
	CauseAndOther    string
	IsCancelled      bool
}

// LandRightEntry is one row of 대지권의 목적인 토지의 표시.
type LandRightEntry struct {
	DisplayNumber string
	Location      string
	LandType      string
	Area          string
	CauseAndOther string
}

// ExclusivePartEntry is one row of 전유부분의 건물의 표시.
type ExclusivePartEntry struct {
	DisplayNumber  string
	ReceiptDate    string
	BuildingNumber string
	BuildingDetail string
	CauseAndOther  string
	IsCancelled    bool
}

// LandRightRatioEntry is one row of 대지권의 표시.
type LandRightRatioEntry struct {
	DisplayNumber  string
	LandRightType  string
	LandRightRatio string
	CauseAndOther  string
	IsCancelled    bool
}

// Cancellation carries the shared cancellation state of a section entry.
// CancelsRank marks an entry that actively cancels another; CancelledByRank
// and the date/cause fields are filled by the relationship mapper on the
// entry being cancelled.
type Cancellation struct {
	IsCancelled       bool
	CancelledByRank   *string
	CancellationDate  *string
	CancellationCause *string
	CancelsRank       *string
}

// SectionAEntry is one 갑구 entry: ownership-related registrations.
type SectionAEntry struct {
	RankNumber            string
	RegistrationType      string
	ReceiptDate           string
	ReceiptNumber         string
	RegistrationCause     string
	RegistrationCauseDate *string
	Owners                []OwnerInfo
	Creditor              *CreditorInfo
	ClaimAmount           *int64
	Cancellation
	RawText string
	Remarks *string
}

// SectionBDetail is the registration-category payload of a 을구 entry.
// At most one variant is populated per entry.
type SectionBDetail interface {
	detailKind() string
}

// MortgageDetail covers 근저당권/저당권.
type MortgageDetail struct {
	MaxClaimAmount *int64
	Debtor         *OwnerInfo
	Mortgagee      *CreditorInfo
}

// PledgeDetail covers 질권. Creditor serializes into the mortgagee slot the way
// the registry's own summary does.
type PledgeDetail struct {
	BondAmount *int64
	Debtor     *OwnerInfo
	Creditor   *CreditorInfo
}

// LeaseDetail covers 전세권/임차권.
type LeaseDetail struct {
	DepositAmount *int64
	MonthlyRent   *int64
	Lessee        *LesseeInfo
	LeaseTerm     *LeaseTermInfo
	LeaseArea     *string
}

// SurfaceRightDetail covers 지상권.
type SurfaceRightDetail struct {
	Purpose  *string
	Scope    *string
	Duration *string
	LandRent *string
	Holder   *CreditorInfo
}

func (MortgageDetail) detailKind() string     { return "mortgage" }
func (PledgeDetail) detailKind() string       { return "pledge" }
func (LeaseDetail) detailKind() string        { return "lease" }
func (SurfaceRightDetail) detailKind() string { return "surface_right" }

// SectionBEntry is one 을구 entry: non-ownership rights.
type SectionBEntry struct {
	RankNumber            string
	RegistrationType      string
	ReceiptDate           string
	ReceiptNumber         string
	RegistrationCause     string
	RegistrationCauseDate *string
	Detail                SectionBDetail
	CollateralList        *string
	Cancellation
	RawText string
	Remarks *string
}

// TitleInfo is the assembled 표제부 block.
type TitleInfo struct {
	UniqueNumber   string
	PropertyType   string
	Address        string
	RoadAddress    *string
	BuildingName   *string
	Structure      *string
	RoofType       *string
	Floors         int
	BuildingType   *string
	Areas          []FloorArea
	LandRightRatio *string
	ExclusiveArea  *float64
	TotalFloorArea float64
	LandType       *string
	LandArea       *string

	LandEntries           []LandTitleEntry
	BuildingEntries       []BuildingTitleEntry
	ExclusivePartEntries  []ExclusivePartEntry
	LandRightEntries      []LandRightEntry
	LandRightRatioEntries []LandRightRatioEntry
}

// TradeListItem is one row of a 매매목록.
type TradeListItem struct {
	SerialNumber        string
	PropertyDescription string
	RankNumber          string
	RegistrationCause   string
	CorrectionCause     string
}

// TradeList is one 매매목록 block with its trade amount.
type TradeList struct {
	ListNumber  string
	TradeAmount *int64
	Items       []TradeListItem
}

// MajorSummaryOwnerEntry is one 등기명의인 row of the reference summary.
type MajorSummaryOwnerEntry struct {
	Name           string
	ResidentNumber *string
	FinalShare     *string
	Address        *string
	RankNumber     string
}

// MajorSummaryRightEntry is one right row of the reference summary.
type MajorSummaryRightEntry struct {
	RankNumber          string
	RegistrationPurpose string
	ReceiptDate         string
	ReceiptNumber       string
	TargetOwner         *string
	Creditor            *string
	MaxClaimAmount      *int64
	BondAmount          *int64
	DepositAmount       *int64
	Purpose             *string
	IsCancelled         bool
}

// MajorSummary is the 주요 등기사항 요약 (참고용) page.
type MajorSummary struct {
	PropertyType string
	Address      string
	UniqueNumber string
	Owners       []MajorSummaryOwnerEntry
	Rights       []MajorSummaryRightEntry
}

// Document is the complete parsed registry document.
type Document struct {
	UniqueNumber    string
	PropertyType    string
	PropertyAddress string
	TitleInfo       TitleInfo
	SectionA        []SectionAEntry
	SectionB        []SectionBEntry
	TradeLists      []TradeList
	MajorSummary    *MajorSummary
	ViewedAt        *string
	IssuedAt        *string
	RawText         string
	ParseWarnings   []string
	ParseStats      map[string]any
	ParseDate       string
}

// Property types.
const (
	PropertyLand              = "land"
	PropertyBuilding          = "building"
	PropertyAggregateBuilding = "aggregate_building"
)
