package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"obak-storefront/internal/domain"
	categoryrepo "obak-storefront/internal/repository/category"
	productrepo "obak-storefront/internal/repository/product"
)

type productSeed struct {
	Name        string
	Description string
	Price       string
	Image       string
	Category    string
	InStock     bool
	Rating      float64
	Reviews     int
}

// Apply inserts the home-finishing catalog for manual testing. It is
// idempotent via repository upserts keyed on the product/category name.
func Apply(ctx context.Context, products productrepo.Repository, categories categoryrepo.Repository) error {
	categoryNames := []string{
		"بلاط وسيراميك",
		"رخام وجرانيت",
		"أرضيات خشبية",
		"دهانات وألوان",
		"إضاءة وكهرباء",
		"أدوات صحية",
		"ورق جدران",
		"عوازل",
	}
	for _, name := range categoryNames {
		if _, err := categories.Upsert(ctx, domain.Category{Name: name}); err != nil {
			return fmt.Errorf("upsert category %s: %w", name, err)
		}
	}

	seeds := []productSeed{
		{
			Name:        "بلاط سيراميك فاخر",
			Description: "بلاط سيراميك عالي الجودة مقاوم للماء والخدوش، مناسب للأرضيات والجدران",
			Price:       "45",
			Image:       "https://images.pexels.com/photos/1571460/pexels-photo-1571460.jpeg",
			Category:    "بلاط وسيراميك",
			InStock:     true,
			Rating:      4.8,
			Reviews:     124,
		},
		{
			Name:        "رخام كرارا إيطالي",
			Description: "رخام كرارا الإيطالي الأصلي، مثالي للمطابخ والحمامات الفاخرة",
			Price:       "120",
			Image:       "https://images.pexels.com/photos/1571453/pexels-photo-1571453.jpeg",
			Category:    "بلاط وسيراميك",
			InStock:     true,
			Rating:      4.9,
			Reviews:     89,
		},
		{
			Name:        "باركيه خشب البلوط",
			Description: "باركيه خشب البلوط الطبيعي، مقاوم للرطوبة ومعالج ضد الحشرات",
			Price:       "85",
			Image:       "https://images.pexels.com/photos/1571468/pexels-photo-1571468.jpeg",
			Category:    "أرضيات خشبية",
			InStock:     true,
			Rating:      4.7,
			Reviews:     156,
		},
		{
			Name:        "دهان جوتن فاخر",
			Description: "دهان جوتن عالي الجودة، مقاوم للبقع وسهل التنظيف",
			Price:       "35",
			Image:       "https://images.pexels.com/photos/1571471/pexels-photo-1571471.jpeg",
			Category:    "دهانات وألوان",
			InStock:     true,
			Rating:      4.6,
			Reviews:     203,
		},
		{
			Name:        "إضاءة LED ذكية",
			Description: "إضاءة LED ذكية قابلة للتحكم عن بعد مع تغيير الألوان",
			Price:       "65",
			Image:       "https://images.pexels.com/photos/1571460/pexels-photo-1571460.jpeg",
			Category:    "إضاءة وكهرباء",
			InStock:     true,
			Rating:      4.5,
			Reviews:     98,
		},
		{
			Name:        "صنابير نحاس فاخرة",
			Description: "صنابير نحاس عالية الجودة مقاومة للصدأ والتآكل",
			Price:       "95",
			Image:       "https://images.pexels.com/photos/1571460/pexels-photo-1571460.jpeg",
			Category:    "أدوات صحية",
			InStock:     false,
			Rating:      4.8,
			Reviews:     67,
		},
		{
			Name:        "ورق جدران ثلاثي الأبعاد",
			Description: "ورق جدران ثلاثي الأبعاد مقاوم للرطوبة وسهل التركيب",
			Price:       "25",
			Image:       "https://images.pexels.com/photos/1571453/pexels-photo-1571453.jpeg",
			Category:    "ورق جدران",
			InStock:     true,
			Rating:      4.4,
			Reviews:     145,
		},
		{
			Name:        "عازل حراري متطور",
			Description: "عازل حراري عالي الكفاءة، يوفر في استهلاك الطاقة",
			Price:       "55",
			Image:       "https://images.pexels.com/photos/1571453/pexels-photo-1571453.jpeg",
			Category:    "عوازل",
			InStock:     true,
			Rating:      4.7,
			Reviews:     78,
		},
	}

	for _, s := range seeds {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return fmt.Errorf("seed price for %s: %w", s.Name, err)
		}
		p := domain.Product{
			Name:        s.Name,
			Description: s.Description,
			Price:       price,
			MainImage:   s.Image,
			Category:    s.Category,
			Rating:      s.Rating,
			Reviews:     s.Reviews,
			InStock:     s.InStock,
		}
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", s.Name, err)
		}
	}

	return nil
}
