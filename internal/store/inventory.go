package store

import (
	"context"
	"fmt"
	"time"

	"github.com/issacasimov/labstore/internal/domain"
)

// AddComponent appends a component after validating its quantities.
func (s *Store) AddComponent(ctx context.Context, component domain.Component) error {
	if err := component.ValidateQuantities(); err != nil {
		return err
	}
	return s.mutate(ctx, "add_component", func(doc *domain.SystemData) error {
		doc.Components = append(doc.Components, component)
		s.logger.Info().Str("component_id", component.ID).Str("name", component.Name).Msg("component added")
		return nil
	})
}

// UpdateComponent replaces the component with the same id after validating
// its quantities. An unknown id is a silent no-op.
func (s *Store) UpdateComponent(ctx context.Context, component domain.Component) error {
	if err := component.ValidateQuantities(); err != nil {
		return err
	}
	return s.mutate(ctx, "update_component", func(doc *domain.SystemData) error {
		for i := range doc.Components {
			if doc.Components[i].ID == component.ID {
				doc.Components[i] = component
				return nil
			}
		}
		return errSkipSave
	})
}

// Components returns all components in the current document.
func (s *Store) Components(ctx context.Context) []domain.Component {
	return s.Load(ctx).Components
}

// AddIssue appends an issue record as-is. Use IssueComponent when the stock
// count should be adjusted too.
func (s *Store) AddIssue(ctx context.Context, issue domain.ComponentIssue) error {
	return s.mutate(ctx, "add_issue", func(doc *domain.SystemData) error {
		doc.ComponentIssues = append(doc.ComponentIssues, issue)
		return nil
	})
}

// UpdateIssue replaces the issue with the same id. An unknown id is a
// silent no-op.
func (s *Store) UpdateIssue(ctx context.Context, issue domain.ComponentIssue) error {
	return s.mutate(ctx, "update_issue", func(doc *domain.SystemData) error {
		for i := range doc.ComponentIssues {
			if doc.ComponentIssues[i].ID == issue.ID {
				doc.ComponentIssues[i] = issue
				return nil
			}
		}
		return errSkipSave
	})
}

// Issues returns all issue records in the current document.
func (s *Store) Issues(ctx context.Context) []domain.ComponentIssue {
	return s.Load(ctx).ComponentIssues
}

// StudentIssues returns the issues recorded for the given student name.
func (s *Store) StudentIssues(ctx context.Context, studentName string) []domain.ComponentIssue {
	var issues []domain.ComponentIssue
	for _, i := range s.Load(ctx).ComponentIssues {
		if i.StudentName == studentName {
			issues = append(issues, i)
		}
	}
	return issues
}

// IssueInput describes a component being handed out.
type IssueInput struct {
	StudentID   string
	StudentName string
	ComponentID string
	Quantity    int
	DueDate     time.Time
	Purpose     string
	IssuedBy    string
}

// IssueComponent records a component leaving the lab and decrements the
// component's available quantity in the same document write.
func (s *Store) IssueComponent(ctx context.Context, input IssueInput) (domain.ComponentIssue, error) {
	if input.Quantity <= 0 {
		return domain.ComponentIssue{}, ErrInvalidQuantity
	}

	var issue domain.ComponentIssue
	err := s.mutate(ctx, "issue_component", func(doc *domain.SystemData) error {
		var component *domain.Component
		for i := range doc.Components {
			if doc.Components[i].ID == input.ComponentID {
				component = &doc.Components[i]
				break
			}
		}
		if component == nil {
			return fmt.Errorf("%w: %s", domain.ErrComponentNotFound, input.ComponentID)
		}
		if component.AvailableQuantity < input.Quantity {
			return fmt.Errorf("%w: %s has %d available, want %d",
				ErrInsufficientStock, component.Name, component.AvailableQuantity, input.Quantity)
		}

		component.AvailableQuantity -= input.Quantity

		issue = domain.ComponentIssue{
			ID:            s.ids.NewID("issue"),
			StudentID:     input.StudentID,
			StudentName:   input.StudentName,
			ComponentID:   component.ID,
			ComponentName: component.Name,
			Quantity:      input.Quantity,
			IssueDate:     s.clock.Now(),
			DueDate:       input.DueDate,
			Purpose:       input.Purpose,
			IssuedBy:      input.IssuedBy,
			Status:        domain.IssueStatusIssued,
		}
		doc.ComponentIssues = append(doc.ComponentIssues, issue)

		s.logger.Info().
			Str("issue_id", issue.ID).
			Str("component_id", component.ID).
			Int("quantity", input.Quantity).
			Str("student", input.StudentName).
			Msg("component issued")
		return nil
	})
	if err != nil {
		return domain.ComponentIssue{}, err
	}
	return issue, nil
}

// ReturnComponent marks an issue returned and puts the units back on the
// shelf, capped at the component's total quantity. Returning an already
// returned issue is a no-op.
func (s *Store) ReturnComponent(ctx context.Context, issueID string) error {
	return s.mutate(ctx, "return_component", func(doc *domain.SystemData) error {
		var issue *domain.ComponentIssue
		for i := range doc.ComponentIssues {
			if doc.ComponentIssues[i].ID == issueID {
				issue = &doc.ComponentIssues[i]
				break
			}
		}
		if issue == nil {
			return fmt.Errorf("%w: %s", domain.ErrIssueNotFound, issueID)
		}
		if issue.Status == domain.IssueStatusReturned {
			return errSkipSave
		}

		now := s.clock.Now()
		issue.Status = domain.IssueStatusReturned
		issue.ReturnDate = &now

		for i := range doc.Components {
			if doc.Components[i].ID == issue.ComponentID {
				doc.Components[i].AvailableQuantity += issue.Quantity
				if doc.Components[i].AvailableQuantity > doc.Components[i].TotalQuantity {
					doc.Components[i].AvailableQuantity = doc.Components[i].TotalQuantity
				}
				break
			}
		}

		s.logger.Info().
			Str("issue_id", issue.ID).
			Str("component_id", issue.ComponentID).
			Msg("component returned")
		return nil
	})
}
