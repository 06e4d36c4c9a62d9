package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProcurementTransitions(t *testing.T) {
	allowed := []struct {
		from, to ProcurementStatus
	}{
		{ProcurementDraft, ProcurementPublished},
		{ProcurementDraft, ProcurementCancelled},
		{ProcurementPublished, ProcurementOpen},
		{ProcurementOpen, ProcurementUnderEvaluation},
		{ProcurementClosed, ProcurementOpen},
		{ProcurementUnderEvaluation, ProcurementAwarded},
		{ProcurementAwarded, ProcurementCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	forbidden := []struct {
		from, to ProcurementStatus
	}{
		{ProcurementDraft, ProcurementAwarded},
		{ProcurementPublished, ProcurementAwarded},
		{ProcurementAwarded, ProcurementOpen},
		{ProcurementCancelled, ProcurementPublished},
		{ProcurementCompleted, ProcurementOpen},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s must be forbidden", tc.from, tc.to)
	}
}

func TestProcurementIsOpenForBidding(t *testing.T) {
	assert.True(t, ProcurementPublished.IsOpenForBidding())
	assert.True(t, ProcurementOpen.IsOpenForBidding())
	assert.False(t, ProcurementDraft.IsOpenForBidding())
	assert.False(t, ProcurementClosed.IsOpenForBidding())
	assert.False(t, ProcurementAwarded.IsOpenForBidding())
}

func TestBidStatusGuards(t *testing.T) {
	assert.True(t, BidSubmitted.IsEvaluable())
	assert.True(t, BidUnderEvaluation.IsEvaluable())
	assert.False(t, BidAwarded.IsEvaluable())
	assert.False(t, BidDisqualified.IsEvaluable())
	assert.False(t, BidRejected.IsEvaluable())

	assert.True(t, BidSubmitted.IsDisqualifiable())
	assert.False(t, BidAwarded.IsDisqualifiable(), "Awarded bids cannot be disqualified")
	assert.False(t, BidDisqualified.IsDisqualifiable())

	assert.True(t, BidSubmitted.IsScorable())
	assert.True(t, BidQualified.IsScorable(), "Rescoring may refresh qualified bids")
	assert.False(t, BidAwarded.IsScorable(), "Awarding is terminal")
	assert.False(t, BidRejected.IsScorable())
	assert.False(t, BidDisqualified.IsScorable())
}

func TestApplicationTransitions(t *testing.T) {
	assert.True(t, ApplicationPending.CanTransitionTo(ApplicationReviewed))
	assert.True(t, ApplicationPending.CanTransitionTo(ApplicationShortlisted))
	assert.True(t, ApplicationShortlisted.CanTransitionTo(ApplicationAccepted))
	assert.True(t, ApplicationReviewed.CanTransitionTo(ApplicationRejected))

	assert.False(t, ApplicationPending.CanTransitionTo(ApplicationAccepted), "Acceptance requires shortlisting first")
	assert.False(t, ApplicationRejected.CanTransitionTo(ApplicationAccepted))
	assert.False(t, ApplicationAccepted.CanTransitionTo(ApplicationRejected))
}

func TestJobTransitions(t *testing.T) {
	assert.True(t, JobDraft.CanTransitionTo(JobActive))
	assert.True(t, JobActive.CanTransitionTo(JobClosed))
	assert.True(t, JobActive.CanTransitionTo(JobExpired))
	assert.True(t, JobExpired.CanTransitionTo(JobActive), "Reactivation after expiry is allowed")

	assert.False(t, JobClosed.CanTransitionTo(JobDraft))
	assert.False(t, JobDraft.CanTransitionTo(JobExpired))
}

func TestExperienceRank(t *testing.T) {
	assert.Equal(t, 1, ExperienceBeginner.Rank())
	assert.Equal(t, 2, ExperienceIntermediate.Rank())
	assert.Equal(t, 3, ExperienceAdvanced.Rank())
	assert.Equal(t, 2, ExperienceLevel("unknown").Rank(), "Unknown levels are treated as intermediate")
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, UserRoleOfficer.Valid())
	assert.True(t, UserRoleLearner.Valid())
	assert.False(t, UserRole("root").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestVerifiedSkillUsability(t *testing.T) {
	now := time.Now()

	usable := VerifiedSkill{Active: true, ExpiresAt: now.AddDate(0, 6, 0)}
	assert.True(t, usable.IsUsable(now))

	expired := VerifiedSkill{Active: true, ExpiresAt: now.AddDate(0, 0, -1)}
	assert.False(t, expired.IsUsable(now))

	deactivated := VerifiedSkill{Active: false, ExpiresAt: now.AddDate(0, 6, 0)}
	assert.False(t, deactivated.IsUsable(now))
}

func TestSkillExpiry(t *testing.T) {
	verifiedAt := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	for _, skill := range SupportedSkills() {
		expiry := SkillExpiry(skill, verifiedAt)
		assert.True(t, expiry.After(verifiedAt), "credential for %s must expire after verification", skill)
	}

	// Навык вне каталога получает срок по умолчанию
	fallback := SkillExpiry("cobol", verifiedAt)
	assert.True(t, fallback.After(verifiedAt))
}

func TestIsSupportedSkill(t *testing.T) {
	assert.True(t, IsSupportedSkill("golang"))
	assert.True(t, IsSupportedSkill("GOLANG"), "Catalog lookup is case-insensitive")
	assert.False(t, IsSupportedSkill("fortran"))
}

func TestJobIsAcceptingApplications(t *testing.T) {
	now := time.Now()
	future := now.AddDate(0, 0, 10)
	past := now.AddDate(0, 0, -1)

	active := JobPosting{Status: JobActive, ExpiresAt: &future}
	assert.True(t, active.IsAcceptingApplications(now))

	expired := JobPosting{Status: JobActive, ExpiresAt: &past}
	assert.False(t, expired.IsAcceptingApplications(now))

	draft := JobPosting{Status: JobDraft, ExpiresAt: &future}
	assert.False(t, draft.IsAcceptingApplications(now))

	open := JobPosting{Status: JobActive}
	assert.True(t, open.IsAcceptingApplications(now), "No expiry means no time limit")
}
