package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/laker77/PointsStoreService-main/internal/models"
)

// AdminContact is who users are pointed at when something needs a human.
const AdminContact = "@laker_77"

var markdownEscapes = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdown escapes the MarkdownV2 control characters in user-supplied
// text so sheet contents cannot break message formatting.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	for _, r := range text {
		if strings.ContainsRune(markdownEscapes, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var categoryEmojis = map[string]string{
	"transport":   "🚗",
	"clothing":    "👕",
	"accessories": "💍",
	"other":       "📦",
}

var categoryNames = map[string]string{
	"transport":   "Транспорт",
	"clothing":    "Одяг",
	"accessories": "Аксесуари",
	"other":       "Інше",
}

func CategoryEmoji(category string) string {
	if emoji, ok := categoryEmojis[category]; ok {
		return emoji
	}
	return "📦"
}

func CategoryName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	// Unknown categories pass through as the sheet spells them.
	return category
}

func BalanceMessage(account *models.UserAccount) string {
	if account == nil {
		return "💎 *Ваш баланс:* Не знайдено в системі\n\n"
	}
	return fmt.Sprintf(
		"💎 *Ваш баланс:* *%d* балів\n\n"+
			"📊 *Детальна інформація:*\n"+
			"┣ • Загальні бали: %d\n"+
			"┣ • Витрачені бали: %d\n"+
			"┗ • Актуальний баланс: %d\n\n",
		account.ActualPoints, account.TotalPoints, account.SpentPoints, account.ActualPoints)
}

func ProductMessage(product models.Product, balance int) string {
	statusIcon := "✅"
	statusText := "*Можете придбати!*"
	if balance < product.Price {
		statusIcon = "❌"
		statusText = fmt.Sprintf("Недостатньо балів. Потрібно ще %d", product.Price-balance)
	}
	return fmt.Sprintf(
		"%s *%s*\n\n"+
			"📋 *Категорія:* %s\n"+
			"💰 *Ціна:* %d балів\n"+
			"📝 *Опис:* %s\n\n"+
			"💎 *Ваш баланс:* %d балів\n\n"+
			"%s *Статус:* %s\n",
		CategoryEmoji(product.Category), EscapeMarkdown(product.Name),
		EscapeMarkdown(CategoryName(product.Category)),
		product.Price,
		EscapeMarkdown(product.Description),
		balance,
		statusIcon, statusText)
}

// OrderMessage is the staff broadcast. It is sent without Markdown, so no
// escaping here.
func OrderMessage(account *models.UserAccount, product models.Product, now time.Time) string {
	tag := strings.NewReplacer("@", "", "_", "").Replace(account.Handle)
	return fmt.Sprintf(
		"🛒 НОВЕ ЗАМОВЛЕННЯ\n\n"+
			"👤 Користувач:\n"+
			"┣ • Ім'я: %s\n"+
			"┣ • Static ID: %s\n"+
			"┗ • Telegram: %s\n\n"+
			"📦 Товар:\n"+
			"┣ • Назва: %s\n"+
			"┣ • Категорія: %s\n"+
			"┗ • Ціна: %d балів\n\n"+
			"💰 Баланс:\n"+
			"┣ • Загальні: %d\n"+
			"┣ • Витрачені: %d → %d\n"+
			"┗ • Актуальні: %d → %d\n\n"+
			"🕒 Час: %s\n"+
			"🔖 Тег: #%s",
		account.Name, account.StaticID, account.Handle,
		product.Name, product.Category, product.Price,
		account.TotalPoints,
		account.SpentPoints, account.SpentPoints+product.Price,
		account.ActualPoints, account.ActualPoints-product.Price,
		now.Format("02.01.2006 15:04"),
		tag)
}

// FallbackAlert carries the essential order facts plus the original delivery
// error, for the admin inbox only.
func FallbackAlert(account *models.UserAccount, product models.Product, sendErr error) string {
	return fmt.Sprintf("🛒 УВАГА! НОВЕ ЗАМОВЛЕННЯ:\n%s -> %s за %d балів\nПомилка відправки в групу: %v",
		account.Name, product.Name, product.Price, sendErr)
}

func PurchaseSuccessMessage(result *models.PurchaseResult) string {
	return fmt.Sprintf(
		"✅ *Покупка успішна!*\n\n"+
			"📦 *Товар:* %s\n"+
			"💰 *Списано:* %d балів\n"+
			"💎 *Новий баланс:* %d балів\n\n"+
			"📋 *Деталі:*\n"+
			"┣ • Замовлення передано адміністрації\n"+
			"┣ • Зв'язок протягом 24 годин\n"+
			"┗ • Дякуємо за покупку! 🎉",
		EscapeMarkdown(result.Product.Name), result.Debited, result.NewBalance)
}

func InsufficientFundsMessage(balance, price int) string {
	return fmt.Sprintf(
		"❌ *Недостатньо балів!*\n\n"+
			"💎 Ваш баланс: %d балів\n"+
			"💰 Ціна товару: %d балів\n"+
			"🔻 Вам не вистачає: %d балів",
		balance, price, price-balance)
}

func AccountNotFoundMessage() string {
	return "❌ Ваш обліковий запис не знайдено в системі.\nЗверніться до адміністратора: " + AdminContact
}

func MissingHandleMessage() string {
	return "❌ Будь ласка, встановіть ім'я користувача в Telegram"
}

func ProductNotFoundMessage() string {
	return "❌ Товар не знайдено"
}

func DebitFailedMessage() string {
	return "❌ Помилка при списанні балів. Зверніться до адміністратора."
}

func GenericErrorMessage() string {
	return "❌ Виникла помилка. Спробуйте пізніше."
}
