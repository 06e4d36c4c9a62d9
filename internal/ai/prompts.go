package ai

import (
	"fmt"
	"strings"
)

// Промпты отдают модели жесткую JSON-схему ответа: парсер на другой
// стороне не прощает свободной формы.

func DocumentParsingPrompt(text string) string {
	if len(text) > 30000 {
		text = text[:30000]
	}
	return fmt.Sprintf(`You are a procurement document analyst. Extract structured data from the document below.

Respond with ONLY a JSON object in this exact shape:
{
  "title": "document title",
  "procuring_entity": "name of the procuring organization",
  "vendor": "vendor name if present, else empty string",
  "amounts": [{"label": "what the amount is for", "value": 0.0, "currency": "KES"}],
  "dates": [{"label": "what the date is for", "date": "YYYY-MM-DD"}],
  "line_items": [{"description": "item", "quantity": 0, "unit_price": 0.0}],
  "summary": "2-3 sentence summary"
}

Document text:
%s`, text)
}

func AnomalyDetectionPrompt(procurementJSON, bidsJSON string) string {
	return fmt.Sprintf(`You are a public procurement fraud analyst. Review this procurement and its bids for irregularities: price anomalies, vendor patterns, timeline issues, missing information, compliance problems.

Respond with ONLY a JSON object:
{
  "risk_score": 0,
  "anomaly_flags": [
    {
      "type": "price_anomaly|vendor_pattern|timeline_issue|missing_info|compliance",
      "severity": "low|medium|high",
      "description": "what was found",
      "evidence": "specific numbers or facts supporting the flag"
    }
  ]
}

risk_score is 0-100 where 100 is maximum irregularity risk.

Procurement:
%s

Bids:
%s`, procurementJSON, bidsJSON)
}

func ExplainProcurementPrompt(procurementJSON string) string {
	return fmt.Sprintf(`Explain this public procurement to an ordinary citizen in plain language. No jargon.

Respond with ONLY a JSON object:
{
  "summary": "what is being procured and why it matters, 3-4 sentences",
  "key_facts": ["fact 1", "fact 2"],
  "budget_context": "one sentence putting the budget in context"
}

Procurement:
%s`, procurementJSON)
}

func AnomalyNarrativePrompt(anomalyJSON, procurementJSON string) string {
	return fmt.Sprintf(`You are advising a procurement auditor. Explain this flagged anomaly and recommend next steps.

Respond with ONLY a JSON object:
{
  "explanation": "what this anomaly means and why it was flagged",
  "potential_causes": ["cause 1", "cause 2"],
  "recommended_actions": ["action 1", "action 2"]
}

Anomaly:
%s

Procurement:
%s`, anomalyJSON, procurementJSON)
}

func VendorVerificationPrompt(vendorJSON string) string {
	return fmt.Sprintf(`You are verifying a vendor registration for a public procurement platform. Assess legitimacy from the registration data.

Respond with ONLY a JSON object:
{
  "legitimacy_score": 0,
  "red_flags": ["flag if any"],
  "checks": [{"check": "what was checked", "result": "pass|warn|fail", "note": "detail"}]
}

legitimacy_score is 0-100 where 100 is fully legitimate.

Vendor registration:
%s`, vendorJSON)
}

func ImprovementSuggestionsPrompt(procurementJSON string) string {
	return fmt.Sprintf(`You are a procurement process consultant. Suggest concrete improvements for this procurement notice: clarity, competitiveness, compliance.

Respond with ONLY a JSON object:
{
  "suggestions": [{"area": "clarity|competition|compliance|timeline", "suggestion": "concrete improvement", "priority": "low|medium|high"}],
  "overall_assessment": "1-2 sentences"
}

Procurement:
%s`, procurementJSON)
}

func VendorPatternPrompt(vendorJSON, bidHistoryJSON string) string {
	return fmt.Sprintf(`You are a procurement fraud analyst. Review this vendor's bidding history for suspicious patterns: unusually high win rates, bid amount clustering, repeated near-deadline submissions.

Respond with ONLY a JSON object:
{
  "pattern_risk_score": 0,
  "patterns": [{"pattern": "what was observed", "severity": "low|medium|high", "detail": "supporting numbers"}],
  "narrative": "2-3 sentence summary for the case file"
}

Vendor:
%s

Bid history aggregates:
%s`, vendorJSON, bidHistoryJSON)
}

func CodeGradingPrompt(challengePrompt, testCasesJSON, language, code string) string {
	return fmt.Sprintf(`You are grading a coding-skill assessment submission. Evaluate the code against the challenge and test cases.

Respond with ONLY a JSON object:
{
  "overall_score": 0,
  "sub_scores": {"correctness": 0, "code_quality": 0, "best_practices": 0, "efficiency": 0},
  "strengths": ["strength"],
  "weaknesses": ["weakness"],
  "suggestions": ["suggestion"],
  "cheating_probability": 0.0
}

All scores are 0-100. cheating_probability is 0.0-1.0 and reflects signs of copied or generated code inconsistent with the submission context.

Challenge:
%s

Test cases:
%s

Language: %s

Submitted code:
%s`, challengePrompt, testCasesJSON, language, strings.TrimSpace(code))
}
