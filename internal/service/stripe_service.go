package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"viralreel/internal/config"
	"viralreel/internal/model"
	"viralreel/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	billingsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	customerpkg "github.com/stripe/stripe-go/v82/customer"
	subscriptionpkg "github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeService manages the Stripe integration: checkout, customer portal
// and the webhook that keeps profiles.subscription_plan in sync.
type StripeService struct {
	cfg      *config.Config
	profiles repository.ProfileRepository
	logger   zerolog.Logger
}

// NewStripeService initializes the Stripe key and returns the service.
func NewStripeService(cfg *config.Config, profiles repository.ProfileRepository, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	return &StripeService{
		cfg:      cfg,
		profiles: profiles,
		logger:   logger.With().Str("service", "StripeService").Logger(),
	}
}

// priceIDForPlan maps a subscription plan to its Stripe price.
func (s *StripeService) priceIDForPlan(plan string) (string, error) {
	switch plan {
	case model.PlanPro:
		return s.cfg.StripeProPriceID, nil
	case model.PlanEnterprise:
		return s.cfg.StripeEnterprisePriceID, nil
	default:
		return "", fmt.Errorf("invalid plan: %s", plan)
	}
}

// planForPriceID is the reverse mapping, used when processing webhooks.
func (s *StripeService) planForPriceID(priceID string) string {
	switch priceID {
	case s.cfg.StripeProPriceID:
		return model.PlanPro
	case s.cfg.StripeEnterprisePriceID:
		return model.PlanEnterprise
	default:
		return ""
	}
}

// getOrCreateCustomer ensures a Stripe customer exists for a profile.
func (s *StripeService) getOrCreateCustomer(ctx context.Context, profile *model.Profile) (string, error) {
	if profile.StripeCustomerID != nil && *profile.StripeCustomerID != "" {
		return *profile.StripeCustomerID, nil
	}
	params := &stripe.CustomerParams{
		Metadata: map[string]string{"user_id": profile.ID},
	}
	if profile.FullName != nil {
		params.Name = stripe.String(*profile.FullName)
	}
	cust, err := customerpkg.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}
	if err := s.profiles.SetStripeCustomerID(ctx, profile.ID, cust.ID); err != nil {
		return "", fmt.Errorf("store stripe customer id: %w", err)
	}
	return cust.ID, nil
}

// CreateCheckoutSession starts a subscription checkout for the given plan.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, userID, plan string) (string, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return "", ErrProfileNotFound
	}
	customerID, err := s.getOrCreateCustomer(ctx, profile)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to resolve Stripe customer")
		return "", err
	}
	priceID, err := s.priceIDForPlan(plan)
	if err != nil {
		return "", err
	}
	sess, err := checkoutsession.New(&stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(priceID), Quantity: stripe.Int64(1)}},
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:         stripe.String(s.cfg.CheckoutSuccessURL),
		CancelURL:          stripe.String(s.cfg.CheckoutCancelURL),
		Metadata:           map[string]string{"user_id": userID},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("plan", plan).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// CreatePortalSession opens the Stripe customer portal for the user.
func (s *StripeService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil || profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		return "", fmt.Errorf("no stripe customer for user: %s", userID)
	}
	sess, err := billingsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*profile.StripeCustomerID),
		ReturnURL: stripe.String(s.cfg.CheckoutCancelURL),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe portal session")
		return "", fmt.Errorf("create billing portal session: %w", err)
	}
	return sess.URL, nil
}

// userIDFromEvent resolves the profile from webhook metadata or the Stripe
// customer id.
func (s *StripeService) userIDFromEvent(ctx context.Context, metadata map[string]string, customerID string) (string, error) {
	if userID, ok := metadata["user_id"]; ok && userID != "" {
		return userID, nil
	}
	if customerID == "" {
		return "", errors.New("cannot determine user: missing metadata and customer id")
	}
	profile, err := s.profiles.GetProfileByStripeCustomerID(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("lookup profile by stripe customer: %w", err)
	}
	if profile == nil {
		return "", fmt.Errorf("no profile for customer: %s", customerID)
	}
	return profile.ID, nil
}

// HandleWebhook verifies and applies a Stripe webhook event.
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	ctx := r.Context()
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			http.Error(w, "invalid checkout.session data", http.StatusBadRequest)
			return
		}
		userID := cs.Metadata["user_id"]
		if userID == "" {
			http.Error(w, "missing user_id in metadata", http.StatusBadRequest)
			return
		}
		if cs.Subscription == nil {
			http.Error(w, "checkout session has no subscription", http.StatusBadRequest)
			return
		}
		sub, err := subscriptionpkg.Get(cs.Subscription.ID, nil)
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", cs.Subscription.ID).Msg("Failed to fetch subscription")
			http.Error(w, "failed to fetch subscription details", http.StatusInternalServerError)
			return
		}
		if err := s.applySubscription(ctx, userID, sub); err != nil {
			http.Error(w, "failed to save subscription", http.StatusInternalServerError)
			return
		}
	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			http.Error(w, "invalid subscription data", http.StatusBadRequest)
			return
		}
		userID, err := s.userIDFromEvent(ctx, sub.Metadata, customerIDOf(&sub))
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", sub.ID).Msg("Failed to identify user")
			http.Error(w, "failed to identify user", http.StatusInternalServerError)
			return
		}
		if err := s.applySubscription(ctx, userID, &sub); err != nil {
			http.Error(w, "failed to update subscription", http.StatusInternalServerError)
			return
		}
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			http.Error(w, "invalid subscription data", http.StatusBadRequest)
			return
		}
		userID, err := s.userIDFromEvent(ctx, sub.Metadata, customerIDOf(&sub))
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", sub.ID).Msg("Failed to identify user")
			http.Error(w, "failed to identify user", http.StatusInternalServerError)
			return
		}
		if err := s.profiles.UpdateSubscription(ctx, userID, model.PlanFree, ""); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to downgrade to free plan")
			http.Error(w, "failed to downgrade subscription", http.StatusInternalServerError)
			return
		}
	default:
		s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	}
	w.WriteHeader(http.StatusOK)
}

func customerIDOf(sub *stripe.Subscription) string {
	if sub.Customer == nil {
		return ""
	}
	return sub.Customer.ID
}

// applySubscription maps the subscription's price to a plan and stores it.
func (s *StripeService) applySubscription(ctx context.Context, userID string, sub *stripe.Subscription) error {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return errors.New("subscription has no price")
	}
	plan := s.planForPriceID(sub.Items.Data[0].Price.ID)
	if plan == "" {
		return fmt.Errorf("unknown price id: %s", sub.Items.Data[0].Price.ID)
	}
	if sub.Status == stripe.SubscriptionStatusCanceled {
		plan = model.PlanFree
	}
	if err := s.profiles.UpdateSubscription(ctx, userID, plan, sub.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("plan", plan).Msg("Failed to store subscription")
		return err
	}
	return nil
}
