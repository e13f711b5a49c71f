package emotion

// lexiconEntry содержит полярность [-1, 1] и субъективность [0, 1] слова
type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// negations инвертируют полярность следующего оцениваемого слова
var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"neither": true,
	"nobody":  true,
	"nothing": true,
	"hardly":  true,
	"barely":  true,
	"dont":    true,
	"doesnt":  true,
	"didnt":   true,
	"isnt":    true,
	"wasnt":   true,
	"cant":    true,
	"cannot":  true,
	"wont":    true,
}

// intensifiers усиливают полярность следующего оцениваемого слова
var intensifiers = map[string]float64{
	"very":       1.3,
	"so":         1.3,
	"really":     1.3,
	"extremely":  1.5,
	"incredibly": 1.5,
	"absolutely": 1.5,
	"totally":    1.4,
	"completely": 1.4,
	"quite":      1.1,
	"too":        1.2,
	"such":       1.2,
	"slightly":   0.7,
	"somewhat":   0.8,
	"a":          1.0,
	"bit":        0.7,
}

// lexicon — оценочный словарь для базового анализа тональности.
// Значения подобраны по образцу полярностей TextBlob.
var lexicon = map[string]lexiconEntry{
	// Положительные
	"good":        {0.7, 0.6},
	"great":       {0.8, 0.75},
	"excellent":   {1.0, 1.0},
	"amazing":     {0.9, 0.9},
	"awesome":     {0.9, 0.9},
	"wonderful":   {1.0, 1.0},
	"fantastic":   {0.9, 0.9},
	"perfect":     {1.0, 1.0},
	"brilliant":   {0.9, 0.9},
	"beautiful":   {0.85, 1.0},
	"love":        {0.5, 0.6},
	"loved":       {0.7, 0.8},
	"like":        {0.3, 0.4},
	"enjoy":       {0.4, 0.5},
	"enjoyed":     {0.5, 0.6},
	"happy":       {0.8, 1.0},
	"happiness":   {0.8, 1.0},
	"glad":        {0.5, 1.0},
	"joy":         {0.8, 0.9},
	"delighted":   {0.9, 1.0},
	"excited":     {0.6, 0.8},
	"exciting":    {0.5, 0.7},
	"thrilled":    {0.8, 0.9},
	"pleased":     {0.6, 0.8},
	"proud":       {0.6, 0.8},
	"best":        {1.0, 0.3},
	"better":      {0.5, 0.5},
	"nice":        {0.6, 1.0},
	"fine":        {0.4, 0.4},
	"cool":        {0.35, 0.65},
	"fun":         {0.3, 0.2},
	"success":     {0.6, 0.7},
	"successful":  {0.6, 0.7},
	"win":         {0.5, 0.6},
	"winning":     {0.5, 0.6},
	"thank":       {0.4, 0.4},
	"thanks":      {0.4, 0.4},
	"grateful":    {0.6, 0.8},
	"hope":        {0.3, 0.4},
	"hopeful":     {0.5, 0.7},
	"impressive":  {0.7, 0.8},
	"interesting": {0.5, 0.5},
	"positive":    {0.4, 0.6},

	// Отрицательные
	"bad":           {-0.7, 0.65},
	"terrible":      {-1.0, 1.0},
	"awful":         {-1.0, 1.0},
	"horrible":      {-1.0, 1.0},
	"worst":         {-1.0, 0.3},
	"worse":         {-0.5, 0.5},
	"poor":          {-0.4, 0.6},
	"hate":          {-0.8, 0.9},
	"hated":         {-0.9, 0.95},
	"dislike":       {-0.4, 0.5},
	"sad":           {-0.5, 1.0},
	"sadness":       {-0.6, 1.0},
	"unhappy":       {-0.6, 1.0},
	"depressed":     {-0.7, 0.9},
	"miserable":     {-0.8, 0.9},
	"angry":         {-0.5, 0.9},
	"furious":       {-0.8, 0.95},
	"annoyed":       {-0.4, 0.7},
	"annoying":      {-0.5, 0.8},
	"frustrated":    {-0.6, 0.8},
	"frustrating":   {-0.6, 0.8},
	"disappointed":  {-0.6, 0.8},
	"disappointing": {-0.6, 0.75},
	"upset":         {-0.5, 0.8},
	"worried":       {-0.4, 0.7},
	"worry":         {-0.3, 0.6},
	"afraid":        {-0.6, 0.9},
	"scared":        {-0.6, 0.9},
	"fear":          {-0.5, 0.8},
	"terrified":     {-0.8, 0.95},
	"anxious":       {-0.4, 0.8},
	"nervous":       {-0.3, 0.7},
	"fail":          {-0.5, 0.6},
	"failed":        {-0.6, 0.7},
	"failure":       {-0.6, 0.7},
	"broken":        {-0.4, 0.6},
	"wrong":         {-0.5, 0.5},
	"problem":       {-0.3, 0.4},
	"trouble":       {-0.4, 0.5},
	"pain":          {-0.6, 0.7},
	"painful":       {-0.7, 0.8},
	"cry":           {-0.5, 0.8},
	"crying":        {-0.5, 0.8},
	"lonely":        {-0.5, 0.9},
	"boring":        {-0.5, 0.8},
	"ugly":          {-0.7, 0.9},
	"disgusting":    {-0.9, 1.0},
	"negative":      {-0.4, 0.6},

	// Слабо окрашенные
	"ok":       {0.2, 0.3},
	"okay":     {0.2, 0.3},
	"normal":   {0.1, 0.3},
	"new":      {0.1, 0.4},
	"old":      {-0.1, 0.2},
	"big":      {0.1, 0.35},
	"small":    {-0.1, 0.35},
	"easy":     {0.4, 0.8},
	"hard":     {-0.3, 0.5},
	"slow":     {-0.3, 0.4},
	"fast":     {0.2, 0.5},
	"surprise": {0.3, 0.7},
}
