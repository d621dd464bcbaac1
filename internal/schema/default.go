package schema

// DefaultSchema is the embedded tenant preference schema: the 16-step intake
// flow the TaDa marketplace uses when no schema file override is configured.
const DefaultSchema = `fields:
  - name: address
    label: Preferred location
    kind: text
  - name: commute_address
    label: Commute destination
    kind: text
  - name: move_in
    label: Move-in window
    kind: date_range
  - name: min_price
    label: Minimum monthly rent
    kind: number
    required: true
    min: 0
  - name: max_price
    label: Maximum monthly rent
    kind: number
    required: true
    min: 0
  - name: min_bedrooms
    label: Minimum bedrooms
    kind: number
    min: 0
    max: 10
  - name: max_bedrooms
    label: Maximum bedrooms
    kind: number
    min: 0
    max: 10
  - name: min_bathrooms
    label: Minimum bathrooms
    kind: number
    min: 0
    max: 10
  - name: max_bathrooms
    label: Maximum bathrooms
    kind: number
    min: 0
    max: 10
  - name: property_type
    label: Property type
    kind: choice
    options:
      - {code: flat, label: Flat}
      - {code: house, label: House}
      - {code: studio, label: Studio}
      - {code: room, label: Room in a shared home}
      - {code: no-preference, label: No preference}
  - name: furnishing
    label: Furnishing
    kind: choice
    options:
      - {code: furnished, label: Furnished}
      - {code: unfurnished, label: Unfurnished}
      - {code: part-furnished, label: Part furnished}
      - {code: no-preference, label: No preference}
  - name: building_styles
    label: Building style
    kind: string_set
    options:
      - {code: btr, label: Build to rent}
      - {code: co-living, label: Co-living}
      - {code: new-build, label: New build}
      - {code: period, label: Period property}
      - {code: luxury, label: Luxury development}
  - name: lifestyle_features
    label: Lifestyle features
    kind: string_set
    options:
      - {code: gym, label: Gym}
      - {code: pool, label: Swimming pool}
      - {code: garden, label: Garden}
      - {code: spa, label: Spa}
      - {code: cinema-room, label: Cinema room}
      - {code: terrace, label: Roof terrace}
  - name: social_features
    label: Social features
    kind: string_set
    options:
      - {code: communal-space, label: Communal space}
      - {code: resident-events, label: Resident events}
      - {code: rooftop, label: Rooftop lounge}
      - {code: games-room, label: Games room}
  - name: work_features
    label: Work features
    kind: string_set
    options:
      - {code: coworking, label: Co-working space}
      - {code: meeting-rooms, label: Meeting rooms}
      - {code: high-speed-wifi, label: High speed wifi}
  - name: convenience_features
    label: Convenience features
    kind: string_set
    options:
      - {code: parking, label: Parking}
      - {code: storage, label: Storage}
      - {code: concierge, label: Concierge}
      - {code: laundry, label: Laundry facilities}
      - {code: bike-storage, label: Bike storage}
  - name: pets
    label: I have pets
    kind: bool
  - name: smoker
    label: I smoke
    kind: bool
  - name: hobbies
    label: Hobbies
    kind: string_set
    options:
      - {code: gaming, label: Gaming}
      - {code: cooking, label: Cooking}
      - {code: fitness, label: Fitness}
      - {code: music, label: Music}
      - {code: reading, label: Reading}
      - {code: travel, label: Travel}
      - {code: art, label: Art}
      - {code: cycling, label: Cycling}
      - {code: gardening, label: Gardening}
      - {code: photography, label: Photography}
  - name: commute_time_walk
    label: Max walking commute (minutes)
    kind: number
    min: 0
    max: 120
  - name: commute_time_cycle
    label: Max cycling commute (minutes)
    kind: number
    min: 0
    max: 120
  - name: commute_time_tube
    label: Max tube commute (minutes)
    kind: number
    min: 0
    max: 120
  - name: ideal_living
    label: Your ideal living environment
    kind: text

steps:
  - title: Location
    fields: [address, commute_address]
  - title: Move-in dates
    fields: [move_in]
  - title: Budget
    fields: [min_price, max_price]
  - title: Bedrooms
    fields: [min_bedrooms, max_bedrooms]
  - title: Bathrooms
    fields: [min_bathrooms, max_bathrooms]
  - title: Property type
    fields: [property_type]
  - title: Furnishing
    fields: [furnishing]
  - title: Building style
    fields: [building_styles]
  - title: Lifestyle features
    fields: [lifestyle_features]
  - title: Social features
    fields: [social_features]
  - title: Work features
    fields: [work_features]
  - title: Convenience features
    fields: [convenience_features]
  - title: Pets and smoking
    fields: [pets, smoker]
  - title: Hobbies
    fields: [hobbies]
  - title: Commute limits
    fields: [commute_time_walk, commute_time_cycle, commute_time_tube]
  - title: About you
    fields: [ideal_living]

range_pairs:
  - {min: min_price, max: max_price}
  - {min: min_bedrooms, max: max_bedrooms}
  - {min: min_bathrooms, max: max_bathrooms}
`
