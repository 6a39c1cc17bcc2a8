package backend

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// Organization is the backend record created during onboarding.
type Organization struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Industry      string `json:"industry"`
	EntityType    string `json:"entity_type"`
	VATRegistered bool   `json:"vat_registered"`
	YearEnd       string `json:"year_end"`
}

// CreateOrganization registers an organization and returns it with its id.
func (c *Client) CreateOrganization(ctx context.Context, org Organization) (*Organization, error) {
	ctx, span := tracer.Start(ctx, "Backend.CreateOrganization")
	defer span.End()
	span.SetAttributes(attribute.String("industry", org.Industry))

	org.ID = ""
	var rows []Organization
	err := c.callOnce(ctx, "create_organization", func() error {
		body, err := c.do(ctx, http.MethodPost, "organizations", org)
		if err != nil {
			return err
		}
		return decodeJSON(body, &rows, "organization")
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].ID == "" {
		return nil, &ErrExternalService{Service: "supabase/create_organization", Err: errors.New("no row returned")}
	}
	return &rows[0], nil
}

type featureRequest struct {
	OrganizationID string `json:"p_organization_id"`
	Feature        string `json:"p_feature"`
}

// CheckFeature asks the backend whether the organization's plan includes
// feature.
func (c *Client) CheckFeature(ctx context.Context, orgID, feature string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Backend.CheckFeature")
	defer span.End()
	span.SetAttributes(attribute.String("organization.id", orgID), attribute.String("feature", feature))

	var allowed bool
	err := c.call(ctx, "check_feature", func() error {
		body, err := c.do(ctx, http.MethodPost, "rpc/check_feature_access", featureRequest{
			OrganizationID: orgID,
			Feature:        feature,
		})
		if err != nil {
			return err
		}
		return decodeJSON(body, &allowed, "feature access")
	})
	if err != nil {
		return false, err
	}
	return allowed, nil
}
