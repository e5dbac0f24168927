// File: internal/notification/dispatcher.go
package notification

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/config"
	"startupteam_backend/internal/user"
)

// Dispatcher fans domain events out to in-app notifications and outbound
// messages. Callers treat every returned error as non-fatal.
type Dispatcher struct {
	service     Service
	messenger   Messenger
	frontendURL string
	codeTTL     string
	logger      *zap.Logger
}

func NewDispatcher(service Service, messenger Messenger, cfg *config.Config, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		service:     service,
		messenger:   messenger,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		codeTTL:     fmt.Sprintf("%d minutes", int(cfg.VerificationCodeExpiry.Minutes())),
		logger:      logger.Named("notifier"),
	}
}

// ApplicationReceived tells a founder that a member applied to one of their roles.
func (d *Dispatcher) ApplicationReceived(ctx context.Context, founderID, applicationID uuid.UUID, memberName, roleTitle string) error {
	msg := fmt.Sprintf("%s applied for %s.", memberName, roleTitle)
	_, err := d.service.CreateNotification(ctx, founderID, ApplicationReceived, msg, &applicationID)
	return err
}

// ApplicationStatusChanged tells a member that a founder moved their application.
func (d *Dispatcher) ApplicationStatusChanged(ctx context.Context, memberID, applicationID uuid.UUID, status, startupName, roleTitle string) error {
	var msg string
	switch status {
	case "accepted":
		msg = fmt.Sprintf("Congratulations! %s accepted your application for %s.", startupName, roleTitle)
	case "rejected":
		msg = fmt.Sprintf("%s has decided not to move forward with your application for %s.", startupName, roleTitle)
	case "interview":
		msg = fmt.Sprintf("%s would like to interview you for %s.", startupName, roleTitle)
	default:
		msg = fmt.Sprintf("Your application for %s at %s is now %s.", roleTitle, startupName, status)
	}
	_, err := d.service.CreateNotification(ctx, memberID, ApplicationStatus, msg, &applicationID)
	return err
}

// SendAcceptance messages an accepted member with the founder's contact.
func (d *Dispatcher) SendAcceptance(ctx context.Context, phone, startupName, founderContact string) error {
	body := fmt.Sprintf("Congratulations!\n\nYour application to %s has been ACCEPTED!\n\nThe founder will contact you at: %s\n\nGood luck with your new venture!\n\n- StartupTeam",
		startupName, founderContact)
	_, err := d.messenger.Send(ctx, phone, body)
	return err
}

// RoleMatch alerts a member about a new role matching their skills. phone may be nil.
func (d *Dispatcher) RoleMatch(ctx context.Context, memberID, roleID uuid.UUID, phone *string, startupName, roleTitle string) error {
	msg := fmt.Sprintf("New role match: %s is looking for %s.", startupName, roleTitle)
	if _, err := d.service.CreateNotification(ctx, memberID, RoleMatch, msg, &roleID); err != nil {
		return err
	}
	if phone == nil || *phone == "" {
		return nil
	}
	body := fmt.Sprintf("New Role Match!\n\n%s is looking for:\n%s\n\nThis matches your profile! Check it out now on StartupTeam.", startupName, roleTitle)
	_, err := d.messenger.Send(ctx, *phone, body)
	return err
}

// SendVerificationCode implements user.CredentialNotifier.
func (d *Dispatcher) SendVerificationCode(ctx context.Context, u *user.User, code string) {
	if u.Phone == nil {
		d.logger.Info("No phone on file for verification code delivery", zap.String("userID", u.ID.String()))
		return
	}
	body := fmt.Sprintf("Your StartupTeam verification code is %s. It expires in %s.", code, d.codeTTL)
	if _, err := d.messenger.Send(ctx, *u.Phone, body); err != nil {
		d.logger.Warn("Failed to deliver verification code", zap.String("userID", u.ID.String()), zap.Error(err))
	}
}

// SendPasswordReset implements user.CredentialNotifier.
func (d *Dispatcher) SendPasswordReset(ctx context.Context, u *user.User, token string) {
	if u.Phone == nil {
		d.logger.Info("No phone on file for password reset delivery", zap.String("userID", u.ID.String()))
		return
	}
	link := d.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
	body := "Reset your StartupTeam password: " + link
	if _, err := d.messenger.Send(ctx, *u.Phone, body); err != nil {
		d.logger.Warn("Failed to deliver password reset link", zap.String("userID", u.ID.String()), zap.Error(err))
	}
}
