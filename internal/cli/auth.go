package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"scan-dashboard/internal/auth"
	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/models"
)

func (c *CLI) authService() *auth.Service {
	return auth.NewService(c.client(), c.log)
}

func (c *CLI) newSignupCmd() *cobra.Command {
	var req models.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Long: `Create an account. A verification code is sent to the email address;
confirm it with 'scanctl verify-otp --type registration'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Password, err = c.secret(cmd, req.Password, "Password"); err != nil {
				return err
			}
			if req.ConfirmPassword, err = c.secret(cmd, req.ConfirmPassword, "Confirm password"); err != nil {
				return err
			}
			resp, err := c.authService().Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.report(resp, "Account created, check your email for a verification code")
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.Company, "company", "", "company name")
	f.StringVar(&req.BusinessType, "business-type", "", "business type")
	f.StringVar(&req.State, "state", "", "state")
	f.StringVar(&req.City, "city", "", "city")
	f.StringVar(&req.Password, "password", "", "password (prompted when empty)")
	f.StringVar(&req.ConfirmPassword, "confirm-password", "", "password confirmation (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *CLI) newLoginCmd() *cobra.Command {
	var req models.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Password, err = c.secret(cmd, req.Password, "Password"); err != nil {
				return err
			}
			result, err := c.authService().Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			if result.RequiresVerification {
				fmt.Fprintf(c.stdout(), "Email not confirmed. Run 'scanctl verify-otp --email %s --type registration' with the code you received.\n", req.Email)
				return &backendError{kind: result.Response.Kind, message: "email verification required"}
			}
			if err := c.report(result.Response, "Signed in"); err != nil {
				return err
			}
			if result.Session != nil && !c.jsonOutput {
				fmt.Fprintf(c.stdout(), "  Signed in as %s\n", result.Session.User.DisplayName())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (prompted when empty)")
	cmd.Flags().BoolVar(&req.RememberMe, "remember-me", false, "request a long-lived session")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.authService().Logout(cmd.Context())
			if err != nil {
				return err
			}
			if !resp.Success {
				// the local session is gone either way
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: backend logout failed: %s\n", resp.Message)
			}
			fmt.Fprintln(c.stdout(), "✓ Signed out")
			return nil
		},
	}
}

func (c *CLI) newForgotPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Send a password reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.authService().ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			return c.report(resp, "Reset code sent")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *CLI) newVerifyOTPCmd() *cobra.Command {
	var req models.VerifyOTPRequest
	var otpType string
	cmd := &cobra.Command{
		Use:   "verify-otp <code>",
		Short: "Verify a one-time code",
		Long: `Verify a one-time code. For --type password_reset the command prints
the reset token to pass to 'scanctl reset-password --token'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Token = args[0]
			req.Type = models.OTPType(otpType)
			result, err := c.authService().VerifyOTP(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := c.report(result.Response, "Code verified"); err != nil {
				return err
			}
			if c.jsonOutput {
				return nil
			}
			if result.ResetToken != "" {
				fmt.Fprintf(c.stdout(), "  Reset token: %s\n", result.ResetToken)
			}
			if result.Session != nil {
				fmt.Fprintf(c.stdout(), "  Signed in as %s\n", result.Session.User.DisplayName())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&otpType, "type", string(models.OTPRegistration), fmt.Sprintf("code type %v", models.OTPTypes))
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *CLI) newResendOTPCmd() *cobra.Command {
	var email, otpType string
	cmd := &cobra.Command{
		Use:   "resend-otp",
		Short: "Send a new one-time code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.authService().ResendOTP(cmd.Context(), email, models.OTPType(otpType))
			if err != nil {
				return err
			}
			return c.report(resp, "Code sent")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&otpType, "type", string(models.OTPRegistration), fmt.Sprintf("code type %v", models.OTPTypes))
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *CLI) newResetPasswordCmd() *cobra.Command {
	var req models.ResetPasswordRequest
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Password, err = c.secret(cmd, req.Password, "New password"); err != nil {
				return err
			}
			if req.ConfirmPassword, err = c.secret(cmd, req.ConfirmPassword, "Confirm password"); err != nil {
				return err
			}
			resp, err := c.authService().ResetPassword(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.report(resp, "Password updated")
		},
	}
	cmd.Flags().StringVar(&req.AccessToken, "token", "", "reset token from verify-otp")
	cmd.Flags().StringVar(&req.Password, "password", "", "new password (prompted when empty)")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "password confirmation (prompted when empty)")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func (c *CLI) newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.authService()
			if !svc.IsAuthenticated(cmd.Context()) {
				return errors.NewSessionNotFoundError("run 'scanctl login' first")
			}
			user, resp, err := svc.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if !resp.Success {
				return c.report(resp, "")
			}
			if user == nil {
				return &backendError{message: "profile response carried no user"}
			}
			if c.jsonOutput {
				return c.outputJSON(user)
			}

			w := c.stdout()
			fmt.Fprintf(w, "Name:     %s\n", user.DisplayName())
			fmt.Fprintf(w, "Email:    %s\n", user.Email)
			if user.Company != "" {
				fmt.Fprintf(w, "Company:  %s\n", user.Company)
			}
			if user.City != "" || user.State != "" {
				fmt.Fprintf(w, "Location: %s %s\n", user.City, user.State)
			}
			fmt.Fprintf(w, "Verified: %t\n", user.EmailConfirmed)
			return nil
		},
	}
}
