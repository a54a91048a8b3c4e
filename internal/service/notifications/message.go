package notifications

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

const (
	currency  = "сум"
	emptyMark = "—"
)

// Message подготовленное уведомление о новом бронировании
type Message struct {
	BookingID   int64
	ClientPhone string

	// AdminText полная сводка для администратора салона
	AdminText string
	// ClientText короткое подтверждение для клиента
	ClientText string

	Notification *domain.BookingNotification
}

// NewMessage формирует тексты уведомления
func NewMessage(n *domain.BookingNotification) Message {
	return Message{
		BookingID:    n.Details.ID,
		ClientPhone:  n.Details.ClientPhone,
		AdminText:    FormatAdminText(n),
		ClientText:   FormatClientText(n),
		Notification: n,
	}
}

// FormatAdminText сводка о записи. Услуги и сумма указаны со слов клиента,
// рядом выводятся услуга и цена самого слота.
func FormatAdminText(n *domain.BookingNotification) string {
	d := n.Details

	claimed := emptyMark
	if len(n.ClaimedServices) > 0 {
		claimed = strings.Join(n.ClaimedServices, ", ")
	}

	var b strings.Builder
	b.WriteString("🆕 НОВАЯ ЗАПИСЬ\n\n")
	fmt.Fprintf(&b, "💇 Салон: %s\n", d.SalonName)
	fmt.Fprintf(&b, "👤 Мастер: %s\n", d.MasterName)
	fmt.Fprintf(&b, "📅 %s %s\n\n", d.Date, d.StartTime)
	fmt.Fprintf(&b, "💄 Услуги (со слов клиента): %s\n", claimed)
	fmt.Fprintf(&b, "💰 Итого (со слов клиента): %s %s\n", formatPrice(n.ClaimedTotalPrice), currency)
	fmt.Fprintf(&b, "🧾 Слот: %s, %s %s\n\n", d.ServiceName, formatPrice(d.Price), currency)
	fmt.Fprintf(&b, "🙍 Клиент: %s\n", orEmpty(d.ClientName))
	fmt.Fprintf(&b, "📞 %s\n", d.ClientPhone)
	fmt.Fprintf(&b, "📧 %s\n", orEmpty(ptr.Value(d.ClientEmail)))
	fmt.Fprintf(&b, "💬 %s", orEmpty(ptr.Value(d.Comment)))
	return b.String()
}

// FormatClientText подтверждение записи для клиента
func FormatClientText(n *domain.BookingNotification) string {
	d := n.Details
	return fmt.Sprintf("Вы записаны: %s, мастер %s, %s в %s. Номер записи %d.",
		d.SalonName, d.MasterName, d.Date, d.StartTime, d.ID)
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptyMark
	}
	return s
}
