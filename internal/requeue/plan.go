package requeue

import (
	"strconv"

	"playonctl/internal/recdb"
)

// Proposal pairs one candidate with the rank it would receive.
type Proposal struct {
	Recording recdb.Recording
	NewRank   float64
}

// Plan is the full set of proposed promotions, in candidate order.
type Plan struct {
	Proposals []Proposal
}

func newPlan(candidates []recdb.Recording, ranks []float64) Plan {
	proposals := make([]Proposal, 0, len(candidates))
	for i, rec := range candidates {
		proposals = append(proposals, Proposal{Recording: rec, NewRank: ranks[i]})
	}
	return Plan{Proposals: proposals}
}

func (p Plan) promotions() []recdb.Promotion {
	promotions := make([]recdb.Promotion, 0, len(p.Proposals))
	for _, proposal := range p.Proposals {
		promotions = append(promotions, recdb.Promotion{
			ID:   proposal.Recording.ID,
			Rank: proposal.NewRank,
		})
	}
	return promotions
}

// CSVHeaders and CSVRows render the plan for the dry-run export file.
func (p Plan) CSVHeaders() []string {
	return []string{"ID", "Title", "Episode", "Status", "Updated", "NewRank"}
}

func (p Plan) CSVRows() [][]string {
	rows := make([][]string, 0, len(p.Proposals))
	for _, proposal := range p.Proposals {
		rec := proposal.Recording
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Title(),
			rec.EpisodeCode(),
			rec.Status.String(),
			rec.Updated.UTC().Format(recdb.TimeFormat),
			strconv.FormatFloat(proposal.NewRank, 'f', -1, 64),
		})
	}
	return rows
}
