package mcpserver

// DataFormatURI is the resource URI of DataFormatContract.
const DataFormatURI = "yada://data-format"

// DataFormatContract describes the data files and the food model that LLM
// consumers should follow when adding foods or logging meals.
const DataFormatContract = `# yada Data Format

## Foods (foods.yaml)

` + "```" + `yaml
basic_foods:
  - identifier: apple            # REQUIRED, unique, case-insensitive
    keywords: [fruit]            # OPTIONAL, used by search
    calories_per_serving: 95     # REQUIRED, >= 0
composite_foods:
  - identifier: snack
    keywords: [afternoon]
    components:                  # REQUIRED, at least one
      - food: apple              # an existing food
        quantity: 1              # > 0
      - food: peanut_butter
        quantity: 2
` + "```" + `

## Rules

1. Atomic and composite foods share one identifier namespace.
2. A composite may be built from other composites. It is stored flattened
   into atomic components, with quantities multiplied through.
3. The calories of a composite serving are the sum of component calories
   times quantity.

## Daily logs (logs/<owner>_logs.yaml)

` + "```" + `yaml
user_name: default
daily_logs:
  - date: 2024-03-01             # YYYY-MM-DD
    entries:
      - food_id: apple
        servings: 3
        calories: 95             # rate captured when first logged
` + "```" + `

Logging a composite adds one entry per atomic component. Logging a food
that is already in the day's log merges the servings. Each change can be
undone one step at a time with the undo tool.
`
