package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/smtp"
	"time"

	"survey-admin/config"
	"survey-admin/models"
	"survey-admin/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidOTP deckt alle Fehlschläge der Code-Prüfung ab. Der Client
// erfährt bewusst nicht, ob der Code falsch, abgelaufen oder verbraucht war.
var ErrInvalidOTP = errors.New("invalid or expired code")

// OTPService wickelt den Passwort-Reset über Einmalcodes ab: Code erzeugen
// und mailen, Code prüfen, Passwort setzen.
type OTPService struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewOTPService erstellt eine neue Instanz des OTPService.
func NewOTPService(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *OTPService {
	return &OTPService{Config: cfg, DB: db, Logger: logger}
}

// Request erzeugt einen 6-stelligen Code für das Admin-Konto und verschickt
// ihn per Mail. Für unbekannte Adressen passiert nichts — die Antwort nach
// außen ist identisch, damit sich Konten nicht enumerieren lassen.
func (o *OTPService) Request(email string) error {
	email = utils.NormalizeEmail(email)
	log := o.Logger.With(zap.String("email", email))

	var admin models.AdminAccount
	if err := o.DB.Where("LOWER(email) = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(code)
	if err != nil {
		return err
	}

	// Alte Codes der Adresse verfallen mit der neuen Anforderung.
	if err := o.DB.Where("LOWER(email) = ?", email).Delete(&models.PasswordResetCode{}).Error; err != nil {
		return err
	}
	rec := models.PasswordResetCode{
		Email:     email,
		CodeHash:  hash,
		ExpiresAt: time.Now().Add(time.Duration(o.Config.OTPExpiryMinutes) * time.Minute),
	}
	if err := o.DB.Create(&rec).Error; err != nil {
		return err
	}

	if o.Config.SMTPHost == "" {
		// Ohne SMTP (lokale Entwicklung) landet der Code nur im Log.
		log.Warn("SMTP not configured, logging OTP instead", zap.String("otp", code))
		return nil
	}

	subject := "Your password reset code"
	body := fmt.Sprintf("Your one-time code is %s. It expires in %d minutes.", code, o.Config.OTPExpiryMinutes)
	if err := o.sendMail(email, subject, body); err != nil {
		log.Error("Failed to send OTP mail", zap.Error(err))
		return err
	}
	log.Info("OTP mail sent")
	return nil
}

// Verify prüft einen Code, ohne ihn zu verbrauchen (der Verify-Schritt des
// Dashboards vor der eigentlichen Passwort-Eingabe).
func (o *OTPService) Verify(email, code string) error {
	_, err := o.lookup(email, code)
	return err
}

// Confirm prüft den Code, verbraucht ihn und setzt das neue Passwort.
func (o *OTPService) Confirm(email, code, newPassword string) error {
	email = utils.NormalizeEmail(email)
	rec, err := o.lookup(email, code)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return o.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AdminAccount{}).Where("LOWER(email) = ?", email).
			Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Model(rec).Update("consumed", true).Error
	})
}

// PurgeExpired entfernt abgelaufene und verbrauchte Codes; läuft per Cron.
func (o *OTPService) PurgeExpired() (int64, error) {
	res := o.DB.Where("expires_at < ? OR consumed = ?", time.Now(), true).
		Delete(&models.PasswordResetCode{})
	return res.RowsAffected, res.Error
}

func (o *OTPService) lookup(email, code string) (*models.PasswordResetCode, error) {
	var rec models.PasswordResetCode
	err := o.DB.Where("LOWER(email) = ? AND consumed = ?", utils.NormalizeEmail(email), false).
		Order("created_at desc").First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	if time.Now().After(rec.ExpiresAt) {
		return nil, ErrInvalidOTP
	}
	if !utils.CheckPassword(rec.CodeHash, code) {
		return nil, ErrInvalidOTP
	}
	return &rec, nil
}

func (o *OTPService) sendMail(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", o.Config.SMTPHost, o.Config.SMTPPort)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		o.Config.SMTPFrom, to, subject, body)

	var auth smtp.Auth
	if o.Config.SMTPUser != "" {
		auth = smtp.PlainAuth("", o.Config.SMTPUser, o.Config.SMTPPass, o.Config.SMTPHost)
	}
	return smtp.SendMail(addr, auth, o.Config.SMTPFrom, []string{to}, []byte(msg))
}

// generateCode erzeugt einen kryptographisch zufälligen 6-stelligen Code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
