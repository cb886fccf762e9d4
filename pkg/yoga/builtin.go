package yoga

import (
	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/zodiac"
)

func ref(b ephemeris.Body) *ephemeris.Body { return &b }

var kendras = []int{1, 4, 7, 10}

var strongDignities = []zodiac.Dignity{zodiac.Exalted, zodiac.Moolatrikona, zodiac.OwnSign}

// mahapurusha builds one of the five Pancha Mahapurusha rules: the planet in
// a kendra from the lagna while in own sign or exaltation. Combustion breaks
// the yoga.
func mahapurusha(id, name string, body ephemeris.Body) Rule {
	return Rule{
		ID:       id,
		Name:     name,
		Category: Benefic,
		When: &Predicate{Kind: KindAllOf, Sub: []*Predicate{
			{Kind: KindHouseOf, Body: ref(body), Houses: kendras},
			{Kind: KindDignityOf, Body: ref(body), Dignities: strongDignities},
		}},
		CancelWhen:   &Predicate{Kind: KindCombust, Body: ref(body)},
		CancelReason: "planet combust",
		Boosts: []*Predicate{
			{Kind: KindDignityOf, Body: ref(body), Dignities: []zodiac.Dignity{zodiac.Exalted}},
			{Kind: KindHouseOf, Body: ref(body), Houses: []int{1, 10}},
		},
	}
}

// Builtin returns the default rule catalog, version "builtin-1". The set
// covers the uncontested classical combinations; cancellation predicates are
// included only where the traditions agree on them.
func Builtin() *Catalog {
	fiveBenefics := []ephemeris.Body{
		ephemeris.Mars, ephemeris.Mercury, ephemeris.Jupiter,
		ephemeris.Venus, ephemeris.Saturn,
	}

	// Kemadruma fires when no planet (Sun and nodes excluded) occupies the
	// 2nd or 12th from the Moon.
	var flanking, inKendraFromMoon []*Predicate
	for _, b := range fiveBenefics {
		flanking = append(flanking, &Predicate{
			Kind: KindHouseFrom, Body: ref(b), From: ref(ephemeris.Moon), Houses: []int{2, 12},
		})
		inKendraFromMoon = append(inKendraFromMoon, &Predicate{
			Kind: KindHouseFrom, Body: ref(b), From: ref(ephemeris.Moon), Houses: kendras,
		})
	}

	return &Catalog{
		Version: "builtin-1",
		Rules: []Rule{
			{
				ID:       "gajakesari",
				Name:     "Gajakesari Yoga",
				Category: Benefic,
				When: &Predicate{
					Kind: KindHouseFrom, Body: ref(ephemeris.Jupiter),
					From: ref(ephemeris.Moon), Houses: kendras,
				},
				CancelWhen: &Predicate{
					Kind: KindDignityOf, Body: ref(ephemeris.Jupiter),
					Dignities: []zodiac.Dignity{zodiac.Debilitated},
				},
				CancelReason: "Jupiter debilitated",
				Boosts: []*Predicate{
					{Kind: KindDignityOf, Body: ref(ephemeris.Jupiter), Dignities: strongDignities},
					{Kind: KindHouseOf, Body: ref(ephemeris.Jupiter), Houses: kendras},
				},
			},
			{
				ID:       "budhaditya",
				Name:     "Budhaditya Yoga",
				Category: Benefic,
				When: &Predicate{
					Kind:   KindConjunction,
					Bodies: []ephemeris.Body{ephemeris.Sun, ephemeris.Mercury},
				},
				Boosts: []*Predicate{
					{Kind: KindHouseOf, Body: ref(ephemeris.Mercury), Houses: []int{1, 4, 5, 7, 9, 10}},
				},
			},
			{
				ID:       "chandra-mangala",
				Name:     "Chandra-Mangala Yoga",
				Category: Benefic,
				When: &Predicate{Kind: KindAnyOf, Sub: []*Predicate{
					{Kind: KindConjunction, Bodies: []ephemeris.Body{ephemeris.Moon, ephemeris.Mars}},
					{Kind: KindAspect, Body: ref(ephemeris.Moon), Other: ref(ephemeris.Mars), Mutual: true},
				}},
			},
			{
				ID:       "dharma-karmadhipati",
				Name:     "Dharma-Karmadhipati Yoga",
				Category: Benefic,
				When: &Predicate{Kind: KindAllOf, Sub: []*Predicate{
					{Kind: KindLordOfHouseIn, House: 9, Houses: []int{9, 10}},
					{Kind: KindLordOfHouseIn, House: 10, Houses: []int{9, 10}},
				}},
			},
			mahapurusha("ruchaka", "Ruchaka Yoga", ephemeris.Mars),
			mahapurusha("bhadra", "Bhadra Yoga", ephemeris.Mercury),
			mahapurusha("hamsa", "Hamsa Yoga", ephemeris.Jupiter),
			mahapurusha("malavya", "Malavya Yoga", ephemeris.Venus),
			mahapurusha("sasa", "Sasa Yoga", ephemeris.Saturn),
			{
				ID:       "kemadruma",
				Name:     "Kemadruma Dosha",
				Category: Malefic,
				When: &Predicate{Kind: KindNot, Sub: []*Predicate{
					{Kind: KindAnyOf, Sub: flanking},
				}},
				CancelWhen:   &Predicate{Kind: KindAnyOf, Sub: inKendraFromMoon},
				CancelReason: "planet in a kendra from the Moon",
			},
			{
				ID:       "manglik",
				Name:     "Mangal Dosha",
				Category: Malefic,
				When: &Predicate{
					Kind: KindHouseOf, Body: ref(ephemeris.Mars),
					Houses: []int{1, 2, 4, 7, 8, 12},
				},
				CancelWhen: &Predicate{
					Kind: KindAspect, Body: ref(ephemeris.Jupiter), Other: ref(ephemeris.Mars),
				},
				CancelReason: "Jupiter aspects Mars",
				Boosts: []*Predicate{
					{Kind: KindHouseOf, Body: ref(ephemeris.Mars), Houses: []int{7, 8}},
					{Kind: KindDignityOf, Body: ref(ephemeris.Mars), Dignities: []zodiac.Dignity{
						zodiac.EnemySign, zodiac.Debilitated,
					}},
				},
			},
			{
				ID:       "sakata",
				Name:     "Sakata Yoga",
				Category: Malefic,
				When: &Predicate{
					Kind: KindHouseFrom, Body: ref(ephemeris.Moon),
					From: ref(ephemeris.Jupiter), Houses: []int{6, 8, 12},
				},
				CancelWhen: &Predicate{
					Kind: KindHouseOf, Body: ref(ephemeris.Moon), Houses: kendras,
				},
				CancelReason: "Moon in a kendra from the lagna",
			},
			{
				ID:       "kaal-sarpa",
				Name:     "Kaal Sarpa Dosha",
				Category: Malefic,
				When:     &Predicate{Kind: KindNodeHemming},
			},
		},
	}
}
