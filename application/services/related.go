package services

import (
	"context"

	"clinect-backend/domain/trial"
)

// relatedQuery walks shared conditions and locations out from a reference
// trial. Shared conditions weigh three times a shared location.
const relatedQuery = `MATCH (t1:Trial {nctId: $nctId})
OPTIONAL MATCH (t1)-[:TREATS]->(c:Condition)<-[:TREATS]-(t2:Trial)
WHERE t2.nctId <> $nctId
WITH t1, t2, collect(DISTINCT c.name) AS sharedConditions
OPTIONAL MATCH (t1)-[:LOCATED_IN]->(l:Location)<-[:LOCATED_IN]-(t2)
WITH t2, sharedConditions, collect(DISTINCT l.name) AS sharedLocations
WITH t2, sharedConditions, sharedLocations,
     (size(sharedConditions) * 3 + size(sharedLocations)) AS relationshipScore
WHERE relationshipScore > 0 AND t2 IS NOT NULL
RETURN t2.nctId AS nctId,
       t2.title AS title,
       t2.status AS status,
       t2.phase AS phase,
       sharedConditions,
       sharedLocations,
       relationshipScore AS matchScore
ORDER BY matchScore DESC, nctId ASC
LIMIT $limit`

// RelatedTrial is a trial connected to a reference trial through shared
// conditions or locations.
type RelatedTrial struct {
	trial.ScoredTrial
	SharedConditions []string `json:"sharedConditions"`
	SharedLocations  []string `json:"sharedLocations"`
}

// Related finds trials that share conditions or locations with the given
// trial, best-connected first.
func (e *MatchEngine) Related(ctx context.Context, nctID string, limit int) ([]RelatedTrial, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := e.graph.Run(ctx, relatedQuery, map[string]any{
		"nctId": nctID,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	related := make([]RelatedTrial, 0, len(rows))
	for _, row := range rows {
		related = append(related, RelatedTrial{
			ScoredTrial: trial.ScoredTrial{
				NCTID:      rowString(row, "nctId"),
				Title:      rowString(row, "title"),
				Status:     rowString(row, "status"),
				Phase:      rowStrings(row, "phase"),
				MatchScore: rowInt(row, "matchScore"),
			},
			SharedConditions: rowStrings(row, "sharedConditions"),
			SharedLocations:  rowStrings(row, "sharedLocations"),
		})
	}

	return related, nil
}
