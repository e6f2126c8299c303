package testutils

// TestArticle is a sample input long enough to summarize.
const TestArticle = `The city council approved funding for a new light rail line on Tuesday,
ending a decade of debate over the project. The line will connect the
harbor district with the university campus and is expected to carry
40,000 passengers a day. Construction is scheduled to begin next spring
and will take four years to complete. Officials estimate the total cost
at $2.1 billion, with the federal government covering roughly half.
Local business groups welcomed the decision, though some residents
raised concerns about construction noise and disruption along the
route. The transit authority said it will hold public meetings in each
affected neighborhood before finalizing the construction schedule. A
separate proposal to extend the line to the airport remains under
study and is not expected to be decided before the end of next year.`
